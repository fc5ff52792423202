package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/repositories/document"
	"github.com/dmitrijs2005/walletkeeper/internal/store"
	"github.com/stretchr/testify/require"
)

var (
	alicePW = []byte("correct horse")
	bobPW   = []byte("battery staple")
)

type fixture struct {
	vault VaultService
	auth  AuthService
	store *store.Store
	path  string
	clock *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureAt(t, filepath.Join(t.TempDir(), "wallets.json"))
}

func newFixtureAt(t *testing.T, path string) *fixture {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	st, err := store.Open(context.Background(), document.NewFileBackend(path), store.WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	auth := NewAuthService(st, 0, nil)
	return &fixture{
		vault: NewVaultService(st, auth, nil),
		auth:  auth,
		store: st,
		path:  path,
		clock: clock,
	}
}

func (f *fixture) register(t *testing.T, username string, password []byte) {
	t.Helper()
	require.NoError(t, f.vault.SetMasterPassword(context.Background(), username, password))
}
