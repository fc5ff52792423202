package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

// UserStore is the persistence the ledger needs.
type UserStore interface {
	FindUser(ctx context.Context, username string) (*models.User, error)
	AppendUser(ctx context.Context, u models.User) error
	Now() time.Time
}

// VaultStore is the persistence the façade needs. *store.Store implements it.
type VaultStore interface {
	UserStore

	WalletsOf(ctx context.Context, username string) ([]models.Wallet, error)
	FindWallet(ctx context.Context, username string, id int64) (*models.Wallet, error)
	AppendWallet(ctx context.Context, w models.Wallet) (int64, error)
	ReplaceWallet(ctx context.Context, w models.Wallet) (bool, error)
	SealLegacyWallets(ctx context.Context, ws []models.Wallet) (int, error)
	RemoveWalletCascade(ctx context.Context, username string, id int64) (bool, error)

	NotesOf(ctx context.Context, username string, walletID int64) ([]models.Note, error)
	AppendNote(ctx context.Context, n models.Note) (int64, error)
	RemoveNote(ctx context.Context, username string, id int64) (bool, error)
}
