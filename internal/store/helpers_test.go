package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/document"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu      sync.Mutex
	body    []byte
	saves   int
	loadErr error
	saveErr error
	closed  bool
}

func (m *memBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.body == nil {
		return nil, document.ErrNoDocument
	}
	return append([]byte(nil), m.body...), nil
}

func (m *memBackend) Save(_ context.Context, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.body = append([]byte(nil), b...)
	m.saves++
	return nil
}

func (m *memBackend) Close() error {
	m.closed = true
	return nil
}

func (m *memBackend) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memBackend) doc(t *testing.T) models.Document {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var d models.Document
	require.NoError(t, json.Unmarshal(m.body, &d))
	return d
}

func frozenClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func openMem(t *testing.T, body string, opts ...Option) (*Store, *memBackend) {
	t.Helper()
	mb := &memBackend{}
	if body != "" {
		mb.body = []byte(body)
	}
	st, err := Open(context.Background(), mb, opts...)
	require.NoError(t, err)
	return st, mb
}
