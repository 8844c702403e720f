// Package sqlitetest opens migrated in-memory SQLite databases for tests.
package sqlitetest

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/catcurious/internal/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var seq atomic.Int64

// Open returns a private in-memory database with every SQLite migration
// applied. It is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db := OpenEmpty(t)

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.Up(db, migrations.SQLiteDir))

	return db
}

// OpenEmpty is Open without migrations.
func OpenEmpty(t testing.TB) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serializes writers
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
