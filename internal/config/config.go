package config

import (
	"fmt"
	"path/filepath"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds runtime settings for the walletkeeper terminal.
type Config struct {
	VaultPath         string
	Backend           string
	DatabaseDSN       string
	MinPasswordLength int
	LegacyOwner       string
	LogLevel          string
	LogFormat         string
	LogDriver         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.VaultPath = filepath.Join("secure-data", "wallets.json")
	c.Backend = BackendFile
	c.DatabaseDSN = ""
	c.MinPasswordLength = 8
	c.LegacyOwner = "owner"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogDriver = "slog"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
		if c.VaultPath == "" {
			return fmt.Errorf("backend %s needs a vault path", c.Backend)
		}
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("backend %s needs a database DSN", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min password length must be positive, got %d", c.MinPasswordLength)
	}
	return nil
}

// LoadConfig constructs a Config from args (without the program name):
// defaults first, then the JSON file named by -c/-config if any, then flags.
// Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
