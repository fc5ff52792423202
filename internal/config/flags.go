package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
)

var knownFlags = []string{
	"-f", "-b", "-d", "-m", "-o", "-l", "-log-format", "-log-driver",
}

// parseFlags overlays cfg with the flags listed in knownFlags. Other
// arguments are ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("walletkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.VaultPath, "f", cfg.VaultPath, "vault file or SQLite database path")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend: file, sqlite or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.IntVar(&cfg.MinPasswordLength, "m", cfg.MinPasswordLength, "minimum master password length")
	fs.StringVar(&cfg.LegacyOwner, "o", cfg.LegacyOwner, "owner name for single-user legacy vaults")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.StringVar(&cfg.LogDriver, "log-driver", cfg.LogDriver, "logger: slog or zap")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
