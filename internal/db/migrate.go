package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/notewizard/internal/sql"
)

// Migration is one embedded schema file.
type Migration struct {
	Name     string
	SQL      string
	Checksum string
}

// Migrations lists the embedded migrations in filename order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := fs.ReadFile(embedsql.Migrations, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(data)
		out = append(out, Migration{Name: entry.Name(), SQL: string(data), Checksum: hex.EncodeToString(sum[:])})
	}
	return out, nil
}

// ApplyMigrations runs every embedded migration not yet recorded in
// wizard.schema_migrations, each in its own transaction. A recorded migration
// whose file has since changed is logged and left alone. It returns the number
// of migrations applied by this call.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (int, error) {
	migrations, err := Migrations()
	if err != nil {
		return 0, err
	}
	if _, err := pool.Exec(ctx, embedsql.MigrationsTable); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	applied := make(map[string]string)
	rows, err := pool.Query(ctx, embedsql.AppliedMigrations)
	if err != nil {
		return 0, fmt.Errorf("list applied migrations: %w", err)
	}
	for rows.Next() {
		var name, sum string
		if err := rows.Scan(&name, &sum); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[name] = sum
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("list applied migrations: %w", err)
	}

	var ran int
	for _, m := range migrations {
		if sum, ok := applied[m.Name]; ok {
			if sum != m.Checksum {
				log.Warn().Str("migration", m.Name).Msg("applied migration has changed on disk")
			}
			continue
		}

		log.Info().Str("migration", m.Name).Msg("applying migration")
		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, embedsql.RecordMigration, m.Name, m.Checksum)
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("execute migration %s: %w", m.Name, err)
		}
		ran++
	}

	log.Info().Int("applied", ran).Int("total", len(migrations)).Msg("wizard schema up to date")
	return ran, nil
}
