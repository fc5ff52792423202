// Package config loads runtime configuration for the walletkeeper terminal.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-f string   vault file path (file backend) or SQLite database path
//	-b string   storage backend: file, sqlite or postgres
//	-d string   PostgreSQL DSN (postgres backend)
//	-m int      minimum master password length for registration
//	-o string   username given to the owner of a single-user legacy vault
//	-l string   log level: debug, info, warn, error
//	-log-format string   text or json
//	-log-driver string   slog or zap
//
// # JSON schema
//
//	{
//	  "vault_path": "secure-data/wallets.json",
//	  "backend": "file",
//	  "database_dsn": "",
//	  "min_password_length": 8,
//	  "legacy_owner": "owner",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "log_driver": "slog"
//	}
package config
