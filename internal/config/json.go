package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/catcurious/internal/flagx"
)

// JsonConfig mirrors Config for JSON files. Keys missing from the file keep
// the value already present in Config.
type JsonConfig struct {
	DatabaseDriver   string `json:"database_driver"`
	DatabaseDSN      string `json:"database_dsn"`
	LogLevel         string `json:"log_level"`
	LogFormat        string `json:"log_format"`
	SaltSize         int    `json:"salt_size"`
	Argon2Time       uint32 `json:"argon2_time"`
	Argon2MemoryKiB  uint32 `json:"argon2_memory_kib"`
	Argon2Threads    uint8  `json:"argon2_threads"`
	Argon2KeyLen     uint32 `json:"argon2_key_len"`
	MetricsNamespace string `json:"metrics_namespace"`
	MetricsFile      string `json:"metrics_file"`
}

// parseJson loads the file named by -c / -config, if any, over config.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := JsonConfig(*config)
	if err := json.Unmarshal(file, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	*config = Config(c)
	return nil
}
