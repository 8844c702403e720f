// Package migrations embeds the goose migrations for every supported
// dialect, one directory per dialect.
package migrations

import "embed"

// Directories inside Migrations.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
