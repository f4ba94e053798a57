package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/notewizard/internal/db"
	"github.com/gyeh/notewizard/internal/exitcode"
	"github.com/gyeh/notewizard/internal/logging"
)

var migrateList bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the wizard schema (finalized notes and dispatched codes)",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "Print the embedded migrations and exit (no database needed)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	migrations, err := db.Migrations()
	if err != nil {
		log.Error().Err(err).Msg("failed to read embedded migrations")
		os.Exit(exitcode.ValidationError)
	}
	if migrateList {
		for _, m := range migrations {
			fmt.Printf("%-32s %s\n", m.Name, m.Checksum[:12])
		}
		return nil
	}

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DSN, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	applied, err := db.ApplyMigrations(ctx, pool, log)
	if err != nil {
		log.Error().Err(err).Int("applied", applied).Msg("migration failed")
		os.Exit(exitcode.DispatchError)
	}

	fmt.Printf("Wizard schema: applied %d of %d migrations (%d already present)\n",
		applied, len(migrations), len(migrations)-applied)
	return nil
}
