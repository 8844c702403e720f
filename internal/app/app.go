// Package app wires configuration, logging, storage, metrics and the
// services into one value used by the command-line entry point.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/catcurious/internal/config"
	"github.com/dmitrijs2005/catcurious/internal/cryptox"
	"github.com/dmitrijs2005/catcurious/internal/filex"
	"github.com/dmitrijs2005/catcurious/internal/logging"
	"github.com/dmitrijs2005/catcurious/internal/metrics"
	"github.com/dmitrijs2005/catcurious/internal/repositories/repomanager"
	"github.com/dmitrijs2005/catcurious/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	manager  repomanager.RepositoryManager
	registry *prometheus.Registry

	Users *services.UserService
	Cats  *services.CatService
}

// NewApp opens the database named by c and builds the services. Log
// records go to logOut.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewHasher(c.HashParams(), c.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(c.MetricsNamespace, registry)
	if err != nil {
		return nil, err
	}

	db, m, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	logger = logger.With("dialect", m.Dialect())
	opts := []services.Option{services.WithLogger(logger), services.WithObserver(recorder)}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		manager:  m,
		registry: registry,
		Users:    services.NewUserService(db, m, hasher, opts...),
		Cats:     services.NewCatService(db, m, opts...),
	}, nil
}

func (a *App) Logger() logging.Logger { return a.logger }

// Migrate applies pending schema migrations.
func (a *App) Migrate(ctx context.Context) error {
	a.logger.Info(ctx, "running migrations")
	return a.manager.RunMigrations(ctx, a.db)
}

// Reset drops and recreates the schema, discarding all data.
func (a *App) Reset(ctx context.Context) error {
	a.logger.Warn(ctx, "resetting schema")
	return a.manager.ResetSchema(ctx, a.db)
}

// Check verifies that the database is reachable and migrated.
func (a *App) Check(ctx context.Context) error {
	return repomanager.Check(ctx, a.db, a.manager)
}

// Close writes the metrics file, if one is configured, and closes the
// database.
func (a *App) Close() error {
	var errs []error

	if a.config.MetricsFile != "" {
		if _, err := filex.EnsureParentDir(a.config.MetricsFile); err != nil {
			errs = append(errs, err)
		} else if err := metrics.WriteTextfile(a.config.MetricsFile, a.registry); err != nil {
			errs = append(errs, err)
		}
	}

	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	return errors.Join(errs...)
}
