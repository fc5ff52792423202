// Package document persists the vault document as one opaque blob.
//
// # Backends
//
//   - FileBackend: a single JSON file, replaced atomically on every save.
//   - SQLBackend: one row in a vault_documents table, over SQLite
//     (modernc.org/sqlite) or PostgreSQL (pgx). The schema is managed by
//     embedded goose migrations.
//
// Backends know nothing about the document's structure; decoding, schema
// upgrades and locking live in internal/store.
package document
