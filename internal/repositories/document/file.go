package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/filex"
)

// FileBackend stores the document in a single file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for the file at path. Nothing is touched
// on disk until the first Save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location.
func (f *FileBackend) Path() string { return f.path }

// Load reads the file. A missing or blank file yields ErrNoDocument.
func (f *FileBackend) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, ErrNoDocument
	}
	return b, nil
}

// Save writes body to a temporary file in the same directory and renames it
// over the target, so readers never observe a partially written document.
func (f *FileBackend) Save(ctx context.Context, body []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := filex.EnsureParentDir(f.path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".vault-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(body); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("rename into %s: %w", f.path, err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (f *FileBackend) Close() error { return nil }
