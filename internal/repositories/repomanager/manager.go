// Package repomanager vends dialect-specific repositories and owns schema
// management (goose migrations) for the supported databases.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/catcurious/internal/dbx"
	"github.com/dmitrijs2005/catcurious/internal/repositories/cats"
	"github.com/dmitrijs2005/catcurious/internal/repositories/users"
)

type RepositoryManager interface {
	// Dialect names the database flavour, e.g. "postgres" or "sqlite".
	Dialect() string

	// RunMigrations applies every pending migration.
	RunMigrations(ctx context.Context, db *sql.DB) error

	// ResetSchema rolls every migration back and applies them again,
	// leaving empty tables.
	ResetSchema(ctx context.Context, db *sql.DB) error

	TableExists(ctx context.Context, db dbx.DBTX, table string) (bool, error)

	Users(db dbx.DBTX) users.Repository
	Cats(db dbx.DBTX) cats.Repository
}
