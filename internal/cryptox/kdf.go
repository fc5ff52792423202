// Package cryptox holds the vault's cryptographic primitives: password based
// key derivation, the salted record cipher and the legacy passphrase cipher
// kept for reading old vault files.
package cryptox

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

// SaltSize is the per-user salt length in bytes (128 bits).
const SaltSize = 16

// ErrInvalidParams is returned for derivation parameters that would produce
// no key material.
var ErrInvalidParams = errors.New("invalid derivation parameters")

// Params are the derivation inputs other than password and salt. Two Params
// values that differ in Iterations yield unrelated keys from the same
// password and salt.
type Params struct {
	Purpose    string
	Iterations int
	KeyLen     int
}

var (
	// AuthParams derive the stored password verifier.
	AuthParams = Params{Purpose: "auth", Iterations: 10000, KeyLen: 32}

	// EncryptionParams derive the record encryption key. The key is never
	// stored, only recomputed from the password when a record is sealed or
	// opened.
	EncryptionParams = Params{Purpose: "encryption", Iterations: 5000, KeyLen: 32}
)

func (p Params) validate() error {
	if p.Iterations <= 0 || p.KeyLen <= 0 {
		return fmt.Errorf("%w: %s iterations=%d keylen=%d", ErrInvalidParams, p.Purpose, p.Iterations, p.KeyLen)
	}
	return nil
}

// DeriveKey runs PBKDF2-HMAC-SHA256 over password and salt with p.
// The caller owns the returned slice and should wipe it after use.
func DeriveKey(password, salt []byte, p Params) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return pbkdf2.Key(password, salt, p.Iterations, p.KeyLen, sha256.New), nil
}

// NewSalt returns a fresh random salt of SaltSize bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// MakeVerifier derives the authentication verifier stored in place of the
// password. AuthParams are fixed, so the derivation cannot fail.
func MakeVerifier(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, AuthParams.Iterations, AuthParams.KeyLen, sha256.New)
}

// makeSHA1Verifier derives a verifier the way vault files written with the
// pre-4.2 crypto-js default hasher did.
func makeSHA1Verifier(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, AuthParams.Iterations, AuthParams.KeyLen, sha1.New)
}

// MatchVerifier reports whether password and salt reproduce stored. Both the
// SHA-256 verifier and the older SHA-1 form are computed on every call so the
// time taken does not depend on which one the file holds.
func MatchVerifier(password, salt, stored []byte) bool {
	current := MakeVerifier(password, salt)
	defer common.WipeByteArray(current)
	old := makeSHA1Verifier(password, salt)
	defer common.WipeByteArray(old)

	a := subtle.ConstantTimeCompare(current, stored)
	b := subtle.ConstantTimeCompare(old, stored)
	return a|b == 1
}
