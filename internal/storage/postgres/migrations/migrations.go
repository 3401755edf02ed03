package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema migrations of the ledger tables.
var Migrations = migrate.NewMigrations() //nolint:gochecknoglobals // -
