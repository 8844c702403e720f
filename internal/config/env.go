package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// lookuper is a test seam for the process environment.
var lookuper envconfig.Lookuper = envconfig.OsLookuper()

// parseEnv overlays CATCURIOUS_* environment variables onto config. Unset
// variables leave the current value alone.
func parseEnv(config *Config) error {
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   config,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	})
	if err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}
