// Package migrations embeds the goose migrations for the SQL document
// backends, one directory per dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// SQLite returns the migrations for the SQLite backend.
func SQLite() fs.FS { return sub("sqlite") }

// Postgres returns the migrations for the PostgreSQL backend.
func Postgres() fs.FS { return sub("postgres") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// The directories are embedded at build time.
		panic(err)
	}
	return f
}
