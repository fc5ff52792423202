// Package models defines the vault's persisted entities and the plaintext
// record shapes that are sealed inside them.
package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// User is a registered vault owner. Only the salt and the derived verifier
// are stored, never the password.
type User struct {
	Username  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// userJSON keeps the field names and hex encodings used by existing vault
// files ("hash" holds the verifier).
type userJSON struct {
	Username  string    `json:"username"`
	Hash      string    `json:"hash"`
	Salt      string    `json:"salt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		Username:  u.Username,
		Hash:      hex.EncodeToString(u.Verifier),
		Salt:      hex.EncodeToString(u.Salt),
		CreatedAt: u.CreatedAt,
	})
}

func (u *User) UnmarshalJSON(b []byte) error {
	var j userJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	salt, err := hex.DecodeString(j.Salt)
	if err != nil {
		return fmt.Errorf("user %q: salt: %w", j.Username, err)
	}
	verifier, err := hex.DecodeString(j.Hash)
	if err != nil {
		return fmt.Errorf("user %q: hash: %w", j.Username, err)
	}
	*u = User{Username: j.Username, Salt: salt, Verifier: verifier, CreatedAt: j.CreatedAt}
	return nil
}
