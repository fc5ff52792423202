package document

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by Load when nothing has been saved yet.
var ErrNoDocument = errors.New("no vault document")

// Backend loads and saves the whole encoded vault document.
type Backend interface {
	// Load returns the last saved document, or ErrNoDocument.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document with body.
	Save(ctx context.Context, body []byte) error

	// Close releases the underlying resources.
	Close() error
}
