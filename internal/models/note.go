package models

import "time"

// Note is a free-text note attached to a wallet. Ciphertext holds a sealed
// NoteRecord.
type Note struct {
	ID         int64  `json:"id"`
	WalletID   int64  `json:"walletId"`
	Username   string `json:"username"`
	Ciphertext []byte `json:"ciphertext"`
}

// NoteRecord is the plaintext sealed into Note.Ciphertext.
type NoteRecord struct {
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoteView is what the façade returns for a listed note.
type NoteView struct {
	ID        int64
	Note      string
	CreatedAt time.Time
}
