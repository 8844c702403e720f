// Package config handles configuration for catcurious, including defaults,
// a JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/catcurious/internal/cryptox"
)

// Supported database drivers (database/sql driver names).
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CATCURIOUS_"

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver: "pgx" (PostgreSQL) or "sqlite".
//   - DatabaseDSN: driver-specific DSN.
//   - LogLevel / LogFormat: see logging.New.
//   - SaltSize: random salt length in bytes, at least cryptox.MinSaltSize.
//   - Argon2*: argon2id cost parameters for new password hashes.
//   - MetricsNamespace: prefix for Prometheus metric names.
//   - MetricsFile: optional textfile-collector output written on exit.
type Config struct {
	DatabaseDriver   string `env:"DATABASE_DRIVER, overwrite"`
	DatabaseDSN      string `env:"DATABASE_DSN, overwrite"`
	LogLevel         string `env:"LOG_LEVEL, overwrite"`
	LogFormat        string `env:"LOG_FORMAT, overwrite"`
	SaltSize         int    `env:"SALT_SIZE, overwrite"`
	Argon2Time       uint32 `env:"ARGON2_TIME, overwrite"`
	Argon2MemoryKiB  uint32 `env:"ARGON2_MEMORY_KIB, overwrite"`
	Argon2Threads    uint8  `env:"ARGON2_THREADS, overwrite"`
	Argon2KeyLen     uint32 `env:"ARGON2_KEY_LEN, overwrite"`
	MetricsNamespace string `env:"METRICS_NAMESPACE, overwrite"`
	MetricsFile      string `env:"METRICS_FILE, overwrite"`
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and the default argon2id parameters.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "data/catcurious.db"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.SaltSize = 32
	c.Argon2Time = cryptox.DefaultParams.Time
	c.Argon2MemoryKiB = cryptox.DefaultParams.MemoryKiB
	c.Argon2Threads = cryptox.DefaultParams.Threads
	c.Argon2KeyLen = cryptox.DefaultParams.KeyLen
	c.MetricsNamespace = "catcurious"
}

// HashParams returns the argon2id parameters held by the config.
func (c *Config) HashParams() cryptox.Params {
	return cryptox.Params{
		Time:      c.Argon2Time,
		MemoryKiB: c.Argon2MemoryKiB,
		Threads:   c.Argon2Threads,
		KeyLen:    c.Argon2KeyLen,
	}
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is empty"))
	}
	if c.SaltSize < cryptox.MinSaltSize {
		errs = append(errs, fmt.Errorf("salt size %d is below the minimum of %d bytes", c.SaltSize, cryptox.MinSaltSize))
	}
	if c.Argon2Time == 0 || c.Argon2MemoryKiB == 0 || c.Argon2Threads == 0 || c.Argon2KeyLen == 0 {
		errs = append(errs, errors.New("argon2 parameters must be positive"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
