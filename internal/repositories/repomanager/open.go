package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/config"
	"github.com/dmitrijs2005/catcurious/internal/filex"
	"github.com/dmitrijs2005/catcurious/internal/logging"
)

// ErrSchemaMissing is returned by Check when a required table is absent.
var ErrSchemaMissing = errors.New("schema not initialized")

// requiredTables are the tables the services expect to exist.
var requiredTables = []string{"users", "cats"}

// Open connects to the database named by driver and dsn and returns the
// matching RepositoryManager. Migrations are not applied.
func Open(ctx context.Context, driver, dsn string, log logging.Logger) (*sql.DB, RepositoryManager, error) {
	var m RepositoryManager

	switch driver {
	case config.DriverPostgres:
		m = NewPostgresRepositoryManager(log)
	case config.DriverSQLite:
		if path, ok := sqlitePath(dsn); ok {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, nil, err
			}
		}
		m = NewSQLiteRepositoryManager(log)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, common.StorageError("open database", err)
	}

	if driver == config.DriverSQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, common.StorageError("ping database", err)
	}

	return db, m, nil
}

// Check reports whether the database is reachable and migrated.
func Check(ctx context.Context, db *sql.DB, m RepositoryManager) error {
	if err := db.PingContext(ctx); err != nil {
		return common.StorageError("ping database", err)
	}

	for _, t := range requiredTables {
		ok, err := m.TableExists(ctx, db, t)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: table %s not found", ErrSchemaMissing, t)
		}
	}

	return nil
}

// sqlitePath extracts the file path from a modernc SQLite DSN. In-memory
// databases report false.
func sqlitePath(dsn string) (string, bool) {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		if strings.Contains(p[i:], "mode=memory") {
			return "", false
		}
		p = p[:i]
	}
	if p == "" || p == ":memory:" {
		return "", false
	}
	return p, true
}
