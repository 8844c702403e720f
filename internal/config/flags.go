package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/catcurious/internal/flagx"
)

// FlagsWithValue lists every flag consumed by configuration, including the
// JSON config flags. Callers use it to separate positional arguments.
var FlagsWithValue = []string{"-b", "-d", "-l", "-f", "-m", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   database driver ("pgx" or "sqlite")
//	-d string   database DSN
//	-l string   log level
//	-f string   log format ("json", "text", "zerolog")
//	-m string   metrics textfile path
//
// Only these flags are looked at (see flagx.FilterArgs), so positional
// arguments and subcommands pass through untouched.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-l", "-f", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text|zerolog)")
	fs.StringVar(&config.MetricsFile, "m", config.MetricsFile, "write metrics to this file on exit")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}
