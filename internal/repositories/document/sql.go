package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/filex"
	"github.com/dmitrijs2005/walletkeeper/internal/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// dialect carries everything that differs between SQL engines.
type dialect struct {
	name       string
	driver     string
	goose      goose.Dialect
	migrations func() fs.FS
	selectBody string
	upsertBody string
}

var (
	sqliteDialect = dialect{
		name:       "sqlite",
		driver:     "sqlite",
		goose:      goose.DialectSQLite3,
		migrations: migrations.SQLite,
		selectBody: `SELECT body FROM vault_documents WHERE id = 1`,
		upsertBody: `INSERT INTO vault_documents (id, body, updated_at)
			VALUES (1, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
	}

	postgresDialect = dialect{
		name:       "postgres",
		driver:     "pgx",
		goose:      goose.DialectPostgres,
		migrations: migrations.Postgres,
		selectBody: `SELECT body FROM vault_documents WHERE id = 1`,
		upsertBody: `INSERT INTO vault_documents (id, body, updated_at)
			VALUES (1, $1, now())
			ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
	}
)

// SQLBackend stores the document as the single row of vault_documents.
type SQLBackend struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies pending migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLBackend, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection avoids SQLITE_BUSY between pooled writers.
	db.SetMaxOpenConns(1)
	return openSQL(ctx, db, sqliteDialect)
}

// OpenPostgres connects to the PostgreSQL database at dsn and applies
// pending migrations.
func OpenPostgres(ctx context.Context, dsn string) (*SQLBackend, error) {
	db, err := sql.Open(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return openSQL(ctx, db, postgresDialect)
}

func openSQL(ctx context.Context, db *sql.DB, d dialect) (*SQLBackend, error) {
	b := &SQLBackend{db: db, dialect: d}
	if err := b.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLBackend) migrate(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping: %w", b.dialect.name, err)
	}
	provider, err := goose.NewProvider(b.dialect.goose, b.db, b.dialect.migrations())
	if err != nil {
		return fmt.Errorf("%s migrations: %w", b.dialect.name, err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%s migrate up: %w", b.dialect.name, err)
	}
	return nil
}

// Load returns the stored document body or ErrNoDocument.
func (b *SQLBackend) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, b.dialect.selectBody).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return body, nil
}

// Save upserts the document row inside a transaction.
func (b *SQLBackend) Save(ctx context.Context, body []byte) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, b.dialect.upsertBody, body)
		if err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("upsert document: no rows affected")
		}
		return nil
	})
}

// Close closes the database handle.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}
