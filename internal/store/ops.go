package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

func userNamed(name string) func(models.User) bool {
	return func(u models.User) bool { return u.Username == name }
}

func walletOf(username string, id int64) func(models.Wallet) bool {
	return func(w models.Wallet) bool { return w.ID == id && w.Username == username }
}

func noteOf(username string, id int64) func(models.Note) bool {
	return func(n models.Note) bool { return n.ID == id && n.Username == username }
}

// FindUser returns the user with the exact (case-sensitive) username or
// common.ErrNotFound.
func (s *Store) FindUser(ctx context.Context, username string) (*models.User, error) {
	var found *models.User
	err := s.View(ctx, func(doc *models.Document) error {
		i, ok := Find(doc.Users, userNamed(username))
		if !ok {
			return fmt.Errorf("user %q: %w", username, common.ErrNotFound)
		}
		u := doc.Users[i]
		found = &u
		return nil
	})
	return found, err
}

// AppendUser stores u unless the username is already taken, in which case
// common.ErrDuplicateUser is returned and nothing is written.
func (s *Store) AppendUser(ctx context.Context, u models.User) error {
	return s.Update(ctx, func(doc *models.Document) error {
		if _, ok := Find(doc.Users, userNamed(u.Username)); ok {
			return fmt.Errorf("user %q: %w", u.Username, common.ErrDuplicateUser)
		}
		doc.Users = append(doc.Users, u)
		return nil
	})
}

// WalletsOf returns the wallets owned by username in insertion order.
func (s *Store) WalletsOf(ctx context.Context, username string) ([]models.Wallet, error) {
	var out []models.Wallet
	err := s.View(ctx, func(doc *models.Document) error {
		out = Filter(doc.Wallets, func(w models.Wallet) bool { return w.Username == username })
		return nil
	})
	return out, err
}

// FindWallet returns wallet id if username owns it, or common.ErrNotFound.
func (s *Store) FindWallet(ctx context.Context, username string, id int64) (*models.Wallet, error) {
	var found *models.Wallet
	err := s.View(ctx, func(doc *models.Document) error {
		i, ok := Find(doc.Wallets, walletOf(username, id))
		if !ok {
			return fmt.Errorf("wallet %d: %w", id, common.ErrNotFound)
		}
		w := doc.Wallets[i]
		found = &w
		return nil
	})
	return found, err
}

// AppendWallet assigns w a fresh id, stores it and returns the id.
func (s *Store) AppendWallet(ctx context.Context, w models.Wallet) (int64, error) {
	err := s.Update(ctx, func(doc *models.Document) error {
		w.ID = s.nextID(doc)
		doc.Wallets = append(doc.Wallets, w)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return w.ID, nil
}

// ReplaceWallet overwrites the stored wallet with w's id and owner. It
// reports false, without writing, when there is no such wallet.
func (s *Store) ReplaceWallet(ctx context.Context, w models.Wallet) (bool, error) {
	n, err := s.ReplaceWallets(ctx, []models.Wallet{w})
	return n == 1, err
}

// ReplaceWallets overwrites every stored wallet matching one of ws by id and
// owner in a single write and returns how many were replaced.
func (s *Store) ReplaceWallets(ctx context.Context, ws []models.Wallet) (int, error) {
	return s.replaceWallets(ctx, ws, func(models.Wallet) bool { return true })
}

// SealLegacyWallets stores the sealed form of legacy wallets. A wallet is
// replaced only while the stored copy is still legacy, so a wallet rewritten
// since the caller read it keeps its newer content.
func (s *Store) SealLegacyWallets(ctx context.Context, ws []models.Wallet) (int, error) {
	return s.replaceWallets(ctx, ws, models.Wallet.IsLegacy)
}

func (s *Store) replaceWallets(ctx context.Context, ws []models.Wallet, current func(models.Wallet) bool) (int, error) {
	replaced := 0
	err := s.Update(ctx, func(doc *models.Document) error {
		for _, w := range ws {
			match := walletOf(w.Username, w.ID)
			pred := func(stored models.Wallet) bool { return match(stored) && current(stored) }
			if ReplaceAt(doc.Wallets, pred, w) {
				replaced++
			}
		}
		if replaced == 0 {
			return errUnchanged
		}
		return nil
	})
	return replaced, err
}

// RemoveWalletCascade deletes wallet id owned by username together with all
// of username's notes on it. It reports false when there was no such wallet.
func (s *Store) RemoveWalletCascade(ctx context.Context, username string, id int64) (bool, error) {
	removed := false
	err := s.Update(ctx, func(doc *models.Document) error {
		var n int
		doc.Wallets, n = RemoveWhere(doc.Wallets, walletOf(username, id))
		if n == 0 {
			return errUnchanged
		}
		removed = true
		doc.Notes, _ = RemoveWhere(doc.Notes, func(nt models.Note) bool {
			return nt.WalletID == id && nt.Username == username
		})
		return nil
	})
	return removed, err
}

// NotesOf returns the notes username attached to walletID.
func (s *Store) NotesOf(ctx context.Context, username string, walletID int64) ([]models.Note, error) {
	var out []models.Note
	err := s.View(ctx, func(doc *models.Document) error {
		out = Filter(doc.Notes, func(n models.Note) bool {
			return n.WalletID == walletID && n.Username == username
		})
		return nil
	})
	return out, err
}

// FindNote returns note id if username owns it, or common.ErrNotFound.
func (s *Store) FindNote(ctx context.Context, username string, id int64) (*models.Note, error) {
	var found *models.Note
	err := s.View(ctx, func(doc *models.Document) error {
		i, ok := Find(doc.Notes, noteOf(username, id))
		if !ok {
			return fmt.Errorf("note %d: %w", id, common.ErrNotFound)
		}
		n := doc.Notes[i]
		found = &n
		return nil
	})
	return found, err
}

// AppendNote assigns n a fresh id and stores it. The target wallet must exist
// and belong to n.Username, otherwise common.ErrNotFound is returned.
func (s *Store) AppendNote(ctx context.Context, n models.Note) (int64, error) {
	err := s.Update(ctx, func(doc *models.Document) error {
		if _, ok := Find(doc.Wallets, walletOf(n.Username, n.WalletID)); !ok {
			return fmt.Errorf("wallet %d: %w", n.WalletID, common.ErrNotFound)
		}
		n.ID = s.nextID(doc)
		doc.Notes = append(doc.Notes, n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n.ID, nil
}

// RemoveNote deletes note id owned by username. It reports false when there
// was no such note.
func (s *Store) RemoveNote(ctx context.Context, username string, id int64) (bool, error) {
	removed := false
	err := s.Update(ctx, func(doc *models.Document) error {
		var n int
		doc.Notes, n = RemoveWhere(doc.Notes, noteOf(username, id))
		if n == 0 {
			return errUnchanged
		}
		removed = true
		return nil
	})
	return removed, err
}
