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
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// and runs the sqlite migrations.
type SQLiteRepositoryManager struct {
	log logging.Logger
}

func NewSQLiteRepositoryManager(log logging.Logger) *SQLiteRepositoryManager {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &SQLiteRepositoryManager{log: log}
}

func (m *SQLiteRepositoryManager) Dialect() string { return "sqlite" }

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Cats(db dbx.DBTX) cats.Repository {
	return cats.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, "sqlite3", migrations.SQLiteDir, m.log)
}

func (m *SQLiteRepositoryManager) ResetSchema(ctx context.Context, db *sql.DB) error {
	return migrateReset(ctx, db, "sqlite3", migrations.SQLiteDir, m.log)
}

func (m *SQLiteRepositoryManager) TableExists(ctx context.Context, db dbx.DBTX, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`select count(*) from sqlite_master where type = 'table' and name = ?`, table).Scan(&n)
	if err != nil {
		return false, common.StorageError("lookup table", err)
	}
	return n > 0, nil
}
