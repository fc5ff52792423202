package models

import "time"

// Wallet is a stored wallet entry. Ciphertext holds a sealed WalletRecord.
//
// Wallets imported from older files carry plaintext Name/Address, a legacy
// passphrase-encrypted PrivateKey and CreatedAt instead of a ciphertext until
// their owner next unlocks the vault; see IsLegacy.
type Wallet struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Ciphertext []byte `json:"ciphertext,omitempty"`

	Name       string     `json:"name,omitempty"`
	Address    string     `json:"address,omitempty"`
	PrivateKey string     `json:"privateKey,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// IsLegacy reports whether w still uses the plaintext-adjacent layout.
func (w Wallet) IsLegacy() bool {
	return len(w.Ciphertext) == 0
}

// WalletRecord is the plaintext sealed into Wallet.Ciphertext.
type WalletRecord struct {
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	PrivateKey string     `json:"privateKey,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// WalletView is what the façade returns for a listed wallet.
type WalletView struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// View projects r onto the listing shape for wallet id.
func (r WalletRecord) View(id int64) WalletView {
	return WalletView{ID: id, Name: r.Name, Address: r.Address, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}
