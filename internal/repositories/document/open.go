package document

import (
	"context"
	"fmt"
)

// Open returns the backend named by kind: "file" and "sqlite" use path,
// "postgres" uses dsn.
func Open(ctx context.Context, kind, path, dsn string) (Backend, error) {
	switch kind {
	case "file":
		return NewFileBackend(path), nil
	case "sqlite":
		return OpenSQLite(ctx, path)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
