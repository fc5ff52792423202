package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
)

// JSONConfig is the file layout. Absent fields leave the current value
// untouched.
type JSONConfig struct {
	VaultPath         *string `json:"vault_path"`
	Backend           *string `json:"backend"`
	DatabaseDSN       *string `json:"database_dsn"`
	MinPasswordLength *int    `json:"min_password_length"`
	LegacyOwner       *string `json:"legacy_owner"`
	LogLevel          *string `json:"log_level"`
	LogFormat         *string `json:"log_format"`
	LogDriver         *string `json:"log_driver"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.VaultPath, jc.VaultPath)
	setIf(&cfg.Backend, jc.Backend)
	setIf(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setIf(&cfg.MinPasswordLength, jc.MinPasswordLength)
	setIf(&cfg.LegacyOwner, jc.LegacyOwner)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	setIf(&cfg.LogDriver, jc.LogDriver)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
