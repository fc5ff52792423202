package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/document"
	"github.com/google/uuid"
)

// DefaultLegacyOwner names the user that v0 single-user vaults are
// attributed to.
const DefaultLegacyOwner = "owner"

// errUnchanged lets an Update callback finish without a write.
var errUnchanged = errors.New("unchanged")

// Store serialises access to the vault document.
type Store struct {
	mu          sync.Mutex
	backend     document.Backend
	now         func() time.Time
	legacyOwner string
	log         logging.Logger
	lastID      int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for id generation and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLegacyOwner sets the username given to the owner of a v0 vault.
func WithLegacyOwner(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.legacyOwner = name
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open binds a Store to backend, creating the default document when nothing
// is stored yet and upgrading an older layout in place. Any failure wraps
// common.ErrStorageUnavailable.
func Open(ctx context.Context, backend document.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:     backend,
		now:         time.Now,
		legacyOwner: DefaultLegacyOwner,
		log:         logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, changed, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.save(ctx, doc); err != nil {
			return nil, err
		}
	}
	s.log = s.log.With("vault_id", doc.Settings.VaultID)
	s.log.Info(ctx, "vault opened", "users", len(doc.Users), "wallets", len(doc.Wallets), "notes", len(doc.Notes))
	return s, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// View calls fn with a freshly loaded document. Changes fn makes are not
// persisted, except that missing collections found on load are written back.
func (s *Store) View(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, changed, err := s.load(ctx)
	if err != nil {
		return err
	}
	if changed {
		if err := s.save(ctx, doc); err != nil {
			return err
		}
	}
	return fn(doc)
}

// Update loads the document, applies fn and writes the result back. Nothing
// is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, changed, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		if !errors.Is(err, errUnchanged) {
			return err
		}
		if !changed {
			return nil
		}
	}
	return s.save(ctx, doc)
}

// nextID returns an id greater than every id handed out or stored so far,
// close to the current Unix time in milliseconds. Callers hold s.mu.
func (s *Store) nextID(doc *models.Document) int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	if m := doc.MaxID(); id <= m {
		id = m + 1
	}
	s.lastID = id
	return id
}

func (s *Store) load(ctx context.Context) (*models.Document, bool, error) {
	body, err := s.backend.Load(ctx)
	if errors.Is(err, document.ErrNoDocument) {
		s.log.Info(ctx, "creating empty vault")
		return s.newDocument(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: load: %w", common.ErrStorageUnavailable, err)
	}

	doc, from, err := decode(body, s.legacyOwner, s.now)
	if err != nil {
		return nil, false, fmt.Errorf("%w: decode: %w", common.ErrStorageUnavailable, err)
	}
	changed := from != models.CurrentVersion
	if changed {
		s.log.Info(ctx, "vault layout upgraded", "from", from, "to", models.CurrentVersion)
	}
	if doc.EnsureCollections() {
		changed = true
	}
	if doc.Settings.VaultID == "" {
		doc.Settings.VaultID = uuid.NewString()
		changed = true
	}
	return doc, changed, nil
}

func (s *Store) save(ctx context.Context, doc *models.Document) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}
	if err := s.backend.Save(ctx, body); err != nil {
		return fmt.Errorf("%w: save: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) newDocument() *models.Document {
	doc := &models.Document{
		Version:  models.CurrentVersion,
		Settings: models.Settings{VaultID: uuid.NewString()},
	}
	doc.EnsureCollections()
	return doc
}
