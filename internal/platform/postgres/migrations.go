package postgres

import "embed"

// Migrations holds the goose SQL migrations for the credential schema.
// Files live under the "migrations" directory of the FS.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"

// MigrationsTable is the goose version table name.
const MigrationsTable = "schema_migrations"
