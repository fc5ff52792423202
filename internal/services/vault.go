package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/cryptox"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

// WalletInput carries the user-editable wallet fields.
type WalletInput struct {
	Name       string
	Address    string
	PrivateKey string // optional; ignored by UpdateWallet
}

// VaultService is the access façade. Every method that reads or changes a
// user's wallets or notes takes the master password and fails with
// common.ErrInvalidCredentials before doing anything else when it is wrong.
type VaultService interface {
	HasMasterPassword(ctx context.Context, username string) (bool, error)
	SetMasterPassword(ctx context.Context, username string, password []byte) error
	VerifyPassword(ctx context.Context, username string, password []byte) (bool, error)

	AddWallet(ctx context.Context, username string, password []byte, in WalletInput) (int64, error)
	GetWallets(ctx context.Context, username string, password []byte) ([]models.WalletView, error)
	GetWallet(ctx context.Context, username string, password []byte, id int64) (*models.WalletView, error)
	GetWalletPrivateKey(ctx context.Context, username string, password []byte, id int64) (string, error)
	UpdateWallet(ctx context.Context, username string, password []byte, id int64, in WalletInput) error
	DeleteWallet(ctx context.Context, username string, password []byte, id int64) error

	AddNote(ctx context.Context, username string, password []byte, walletID int64, text string) (int64, error)
	GetNotes(ctx context.Context, username string, password []byte, walletID int64) ([]models.NoteView, error)
	DeleteNote(ctx context.Context, username string, password []byte, id int64) error
}

type vaultService struct {
	store VaultStore
	auth  AuthService
	log   logging.Logger
}

// NewVaultService constructs the façade over store, using auth as the ledger.
func NewVaultService(store VaultStore, auth AuthService, log logging.Logger) VaultService {
	if log == nil {
		log = logging.Nop()
	}
	return &vaultService{store: store, auth: auth, log: log}
}

func (s *vaultService) HasMasterPassword(ctx context.Context, username string) (bool, error) {
	return s.auth.Exists(ctx, username)
}

func (s *vaultService) SetMasterPassword(ctx context.Context, username string, password []byte) error {
	return s.auth.Register(ctx, username, password)
}

func (s *vaultService) VerifyPassword(ctx context.Context, username string, password []byte) (bool, error) {
	return s.auth.Verify(ctx, username, password)
}

func validateWallet(in WalletInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return fmt.Errorf("%w: wallet name and address are required", common.ErrInvalidInput)
	}
	return nil
}

func (s *vaultService) AddWallet(ctx context.Context, username string, password []byte, in WalletInput) (int64, error) {
	if err := validateWallet(in); err != nil {
		return 0, err
	}
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return 0, err
	}

	rec := models.WalletRecord{
		Name:       in.Name,
		Address:    in.Address,
		PrivateKey: in.PrivateKey,
		CreatedAt:  s.store.Now().UTC(),
	}
	blob, err := cryptox.SealRecord(rec, password, u.Salt)
	if err != nil {
		return 0, fmt.Errorf("seal wallet: %w", err)
	}

	id, err := s.store.AppendWallet(ctx, models.Wallet{Username: username, Ciphertext: blob})
	if err != nil {
		return 0, fmt.Errorf("add wallet: %w", err)
	}
	s.log.Debug(ctx, "wallet added", "username", username, "wallet_id", id)
	return id, nil
}

// GetWallets lists the user's wallets. Records that do not decrypt under the
// supplied password are left out. Wallets still in the legacy layout are
// sealed into the current one as a side effect.
func (s *vaultService) GetWallets(ctx context.Context, username string, password []byte) ([]models.WalletView, error) {
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	ws, err := s.store.WalletsOf(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	out := make([]models.WalletView, 0, len(ws))
	var sealed []models.Wallet
	for _, w := range ws {
		if w.IsLegacy() {
			rec := s.legacyRecord(w)
			if nw, err := s.sealLegacy(ctx, w, rec, password, u.Salt); err == nil {
				sealed = append(sealed, nw)
			}
			out = append(out, rec.View(w.ID))
			continue
		}

		var rec models.WalletRecord
		if err := cryptox.OpenRecord(w.Ciphertext, password, u.Salt, &rec); err != nil {
			s.log.Warn(ctx, "wallet skipped", "username", username, "wallet_id", w.ID, "error", err)
			continue
		}
		out = append(out, rec.View(w.ID))
	}

	if len(sealed) > 0 {
		n, err := s.store.SealLegacyWallets(ctx, sealed)
		if err != nil {
			s.log.Error(ctx, "sealing legacy wallets failed", "username", username, "error", err)
		} else {
			s.log.Info(ctx, "legacy wallets sealed", "username", username, "count", n)
		}
	}
	return out, nil
}

func (s *vaultService) legacyRecord(w models.Wallet) models.WalletRecord {
	rec := models.WalletRecord{Name: w.Name, Address: w.Address, CreatedAt: s.store.Now().UTC()}
	if w.CreatedAt != nil {
		rec.CreatedAt = *w.CreatedAt
	}
	return rec
}

// sealLegacy converts a legacy wallet into its sealed form, decrypting the
// passphrase-encrypted private key on the way.
func (s *vaultService) sealLegacy(ctx context.Context, w models.Wallet, rec models.WalletRecord, password, salt []byte) (models.Wallet, error) {
	if w.PrivateKey != "" {
		if err := cryptox.LegacyOpen(w.PrivateKey, password, &rec.PrivateKey); err != nil {
			s.log.Warn(ctx, "legacy wallet left unsealed", "wallet_id", w.ID, "error", err)
			return models.Wallet{}, err
		}
	}
	blob, err := cryptox.SealRecord(rec, password, salt)
	if err != nil {
		return models.Wallet{}, err
	}
	return models.Wallet{ID: w.ID, Username: w.Username, Ciphertext: blob}, nil
}

// openWallet authenticates and decrypts a single wallet. Unlike listing, a
// record that does not decrypt is reported as common.ErrRecordUndecryptable.
func (s *vaultService) openWallet(ctx context.Context, username string, password []byte, id int64) (*models.User, *models.Wallet, *models.WalletRecord, error) {
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, nil, err
	}
	w, err := s.store.FindWallet(ctx, username, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if w.IsLegacy() {
		rec := s.legacyRecord(*w)
		return u, w, &rec, nil
	}
	var rec models.WalletRecord
	if err := cryptox.OpenRecord(w.Ciphertext, password, u.Salt, &rec); err != nil {
		return nil, nil, nil, fmt.Errorf("wallet %d: %w", id, err)
	}
	return u, w, &rec, nil
}

func (s *vaultService) GetWallet(ctx context.Context, username string, password []byte, id int64) (*models.WalletView, error) {
	_, _, rec, err := s.openWallet(ctx, username, password, id)
	if err != nil {
		return nil, err
	}
	v := rec.View(id)
	return &v, nil
}

func (s *vaultService) GetWalletPrivateKey(ctx context.Context, username string, password []byte, id int64) (string, error) {
	_, w, rec, err := s.openWallet(ctx, username, password, id)
	if err != nil {
		return "", err
	}
	if !w.IsLegacy() {
		return rec.PrivateKey, nil
	}
	if w.PrivateKey == "" {
		return "", nil
	}
	var pk string
	if err := cryptox.LegacyOpen(w.PrivateKey, password, &pk); err != nil {
		return "", fmt.Errorf("wallet %d: %w", id, err)
	}
	return pk, nil
}

// UpdateWallet re-seals the wallet with new name and address, keeping its
// creation time and private key and stamping UpdatedAt. A wallet the user
// does not own, or that does not exist, is silently left alone.
func (s *vaultService) UpdateWallet(ctx context.Context, username string, password []byte, id int64, in WalletInput) error {
	if err := validateWallet(in); err != nil {
		return err
	}
	u, w, rec, err := s.openWallet(ctx, username, password, id)
	if errors.Is(err, common.ErrNotFound) {
		s.log.Debug(ctx, "update of missing wallet ignored", "username", username, "wallet_id", id)
		return nil
	}
	if err != nil {
		return err
	}

	if w.IsLegacy() && w.PrivateKey != "" {
		if err := cryptox.LegacyOpen(w.PrivateKey, password, &rec.PrivateKey); err != nil {
			return fmt.Errorf("wallet %d: %w", id, err)
		}
	}
	now := s.store.Now().UTC()
	rec.Name = in.Name
	rec.Address = in.Address
	rec.UpdatedAt = &now

	blob, err := cryptox.SealRecord(rec, password, u.Salt)
	if err != nil {
		return fmt.Errorf("seal wallet: %w", err)
	}
	ok, err := s.store.ReplaceWallet(ctx, models.Wallet{ID: id, Username: username, Ciphertext: blob})
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if !ok {
		s.log.Debug(ctx, "wallet vanished before update", "username", username, "wallet_id", id)
	}
	return nil
}

// DeleteWallet removes the wallet and its notes. A missing wallet is a no-op.
func (s *vaultService) DeleteWallet(ctx context.Context, username string, password []byte, id int64) error {
	if _, err := s.auth.Authenticate(ctx, username, password); err != nil {
		return err
	}
	removed, err := s.store.RemoveWalletCascade(ctx, username, id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if !removed {
		s.log.Debug(ctx, "delete of missing wallet ignored", "username", username, "wallet_id", id)
	}
	return nil
}

func (s *vaultService) AddNote(ctx context.Context, username string, password []byte, walletID int64, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: empty note", common.ErrInvalidInput)
	}
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return 0, err
	}

	blob, err := cryptox.SealRecord(models.NoteRecord{Note: text, CreatedAt: s.store.Now().UTC()}, password, u.Salt)
	if err != nil {
		return 0, fmt.Errorf("seal note: %w", err)
	}
	id, err := s.store.AppendNote(ctx, models.Note{WalletID: walletID, Username: username, Ciphertext: blob})
	if err != nil {
		return 0, fmt.Errorf("add note: %w", err)
	}
	return id, nil
}

// GetNotes lists the notes on a wallet, leaving out any that do not decrypt.
func (s *vaultService) GetNotes(ctx context.Context, username string, password []byte, walletID int64) ([]models.NoteView, error) {
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	ns, err := s.store.NotesOf(ctx, username, walletID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	out := make([]models.NoteView, 0, len(ns))
	for _, n := range ns {
		var rec models.NoteRecord
		if err := cryptox.OpenRecord(n.Ciphertext, password, u.Salt, &rec); err != nil {
			s.log.Warn(ctx, "note skipped", "username", username, "note_id", n.ID, "error", err)
			continue
		}
		out = append(out, models.NoteView{ID: n.ID, Note: rec.Note, CreatedAt: rec.CreatedAt})
	}
	return out, nil
}

func (s *vaultService) DeleteNote(ctx context.Context, username string, password []byte, id int64) error {
	if _, err := s.auth.Authenticate(ctx, username, password); err != nil {
		return err
	}
	removed, err := s.store.RemoveNote(ctx, username, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if !removed {
		s.log.Debug(ctx, "delete of missing note ignored", "username", username, "note_id", id)
	}
	return nil
}
