package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/catcurious/internal/logging"
	"github.com/dmitrijs2005/catcurious/internal/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseResetContext is a seam for testing goose.ResetContext.
var gooseResetContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.ResetContext(ctx, db, dir, opts...)
}

// gooseLogger forwards goose output to a logging.Logger.
type gooseLogger struct {
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(context.Background(), fmt.Sprintf(format, v...), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(context.Background(), fmt.Sprintf(format, v...), "component", "goose")
	os.Exit(1)
}

// setupGoose points goose at the embedded migrations for one dialect.
// goose keeps this configuration in package globals.
func setupGoose(dialect string, log logging.Logger) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %s: %w", dialect, err)
	}
	return nil
}

func migrateUp(ctx context.Context, db *sql.DB, dialect, dir string, log logging.Logger) error {
	if err := setupGoose(dialect, log); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func migrateReset(ctx context.Context, db *sql.DB, dialect, dir string, log logging.Logger) error {
	if err := setupGoose(dialect, log); err != nil {
		return err
	}
	if err := gooseResetContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate reset: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
