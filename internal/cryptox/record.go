package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

const nonceSize = 12

// SealRecord serializes v to JSON and encrypts it with AES-256-GCM under a
// key derived from password and salt using EncryptionParams.
//
// The returned blob is nonce || ciphertext || tag. A fresh nonce is drawn
// for every call, so sealing the same record twice gives different blobs.
func SealRecord(v any, password, salt []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	key, err := DeriveKey(password, salt, EncryptionParams)
	if err != nil {
		return nil, err
	}
	defer common.LockMemory(key)()

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(nonceSize)
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenRecord reverses SealRecord and decodes the payload into v.
//
// Every failure, whether a wrong password, a truncated or tampered blob or
// a payload that is not the expected JSON, is reported as
// common.ErrRecordUndecryptable.
func OpenRecord(blob, password, salt []byte, v any) error {
	if len(blob) < nonceSize {
		return fmt.Errorf("%w: blob too short", common.ErrRecordUndecryptable)
	}

	key, err := DeriveKey(password, salt, EncryptionParams)
	if err != nil {
		return err
	}
	defer common.LockMemory(key)()

	aead, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecordUndecryptable, err)
	}
	defer common.WipeByteArray(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecordUndecryptable, err)
	}
	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aead, nil
}
