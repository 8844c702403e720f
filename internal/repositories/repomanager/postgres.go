package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/dbx"
	"github.com/dmitrijs2005/catcurious/internal/logging"
	"github.com/dmitrijs2005/catcurious/internal/migrations"
	"github.com/dmitrijs2005/catcurious/internal/repositories/cats"
	"github.com/dmitrijs2005/catcurious/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and runs the postgres migrations.
type PostgresRepositoryManager struct {
	log logging.Logger
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
// A nil logger discards migration output.
func NewPostgresRepositoryManager(log logging.Logger) *PostgresRepositoryManager {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &PostgresRepositoryManager{log: log}
}

func (m *PostgresRepositoryManager) Dialect() string { return "postgres" }

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Cats returns a cats.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Cats(db dbx.DBTX) cats.Repository {
	return cats.NewPostgresRepository(db)
}

// RunMigrations applies the embedded postgres migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, "pgx", migrations.PostgresDir, m.log)
}

// ResetSchema drops and recreates every table.
func (m *PostgresRepositoryManager) ResetSchema(ctx context.Context, db *sql.DB) error {
	return migrateReset(ctx, db, "pgx", migrations.PostgresDir, m.log)
}

func (m *PostgresRepositoryManager) TableExists(ctx context.Context, db dbx.DBTX, table string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM information_schema.tables
		   WHERE table_schema = current_schema() AND table_name = $1
		 )`

	var exists bool
	if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
		return false, common.StorageError("lookup table", err)
	}
	return exists, nil
}
