package sql

import "embed"

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_note.sql
var RegisterNote string

//go:embed queries/lookup_note.sql
var LookupNote string

//go:embed queries/reset_note.sql
var ResetNote string

//go:embed queries/delete_note_codes.sql
var DeleteNoteCodes string

//go:embed queries/complete_note.sql
var CompleteNote string

//go:embed queries/note_totals.sql
var NoteTotals string

//go:embed queries/migrations_table.sql
var MigrationsTable string

const AppliedMigrations = `SELECT name, checksum FROM wizard.schema_migrations`

const RecordMigration = `INSERT INTO wizard.schema_migrations (name, checksum) VALUES ($1, $2)`
