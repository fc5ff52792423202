package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// The legacy cipher is the OpenSSL "enc" passphrase format written by older
// vault files: base64("Salted__" || salt[8] || AES-256-CBC(PKCS#7)), with
// key and IV from EVP_BytesToKey(MD5, one round). The passphrase is used
// directly, without the per-user salt or PBKDF2.

const (
	legacyMagic    = "Salted__"
	legacySaltSize = 8
	legacyKeySize  = 32
)

// LegacySeal encrypts the JSON encoding of v under passphrase in the legacy
// format. It exists so tests and fixtures can produce legacy blobs; new
// records are sealed with SealRecord.
func LegacySeal(v any, passphrase []byte) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	salt := common.GenerateRandByteArray(legacySaltSize)
	key, iv := evpBytesToKey(passphrase, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, 0, len(legacyMagic)+legacySaltSize+len(padded))
	out = append(out, legacyMagic...)
	out = append(out, salt...)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	out = append(out, ct...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// LegacyOpen decrypts a legacy blob and decodes the JSON payload into v.
// Failures are reported as common.ErrRecordUndecryptable.
func LegacyOpen(encoded string, passphrase []byte, v any) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecordUndecryptable, err)
	}
	header := len(legacyMagic) + legacySaltSize
	if len(raw) < header+aes.BlockSize || !bytes.HasPrefix(raw, []byte(legacyMagic)) {
		return fmt.Errorf("%w: not a salted blob", common.ErrRecordUndecryptable)
	}
	ct := raw[header:]
	if len(ct)%aes.BlockSize != 0 {
		return fmt.Errorf("%w: ciphertext not block aligned", common.ErrRecordUndecryptable)
	}

	key, iv := evpBytesToKey(passphrase, raw[len(legacyMagic):header])
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("new cipher: %w", err)
	}
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)
	defer common.WipeByteArray(plain)

	unpadded, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return fmt.Errorf("%w: bad padding", common.ErrRecordUndecryptable)
	}
	if err := json.Unmarshal(unpadded, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRecordUndecryptable, err)
	}
	return nil
}

// evpBytesToKey is OpenSSL's EVP_BytesToKey with MD5 and a single round,
// producing a 32-byte key followed by a 16-byte IV.
func evpBytesToKey(passphrase, salt []byte) (key, iv []byte) {
	need := legacyKeySize + aes.BlockSize
	var derived, prev []byte
	for len(derived) < need {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:legacyKeySize], derived[legacyKeySize:need]
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append([]byte(nil), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
