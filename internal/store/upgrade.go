package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

// ErrUnsupportedVersion is returned for documents written by a newer build.
var ErrUnsupportedVersion = errors.New("unsupported vault version")

// header is the part of the document needed to tell layouts apart.
type header struct {
	Version        *int            `json:"version"`
	MasterPassword json.RawMessage `json:"masterPassword"`
}

type v0Master struct {
	Hash      string     `json:"hash"`
	Salt      string     `json:"salt"`
	CreatedAt *time.Time `json:"createdAt"`
}

type v0Document struct {
	MasterPassword v0Master        `json:"masterPassword"`
	Wallets        []models.Wallet `json:"wallets"`
	Settings       models.Settings `json:"settings"`
}

// decode parses body in any known layout and returns it in the current one
// together with the version it was read as.
func decode(body []byte, legacyOwner string, now func() time.Time) (*models.Document, int, error) {
	var h header
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	hasMaster := len(h.MasterPassword) > 0 && string(h.MasterPassword) != "null"

	var version int
	switch {
	case h.Version != nil && *h.Version > 1:
		version = *h.Version
	case hasMaster:
		version = 0
	default:
		version = 1
	}

	switch {
	case version == 0:
		doc, err := upgradeV0(body, legacyOwner, now)
		return doc, 0, err
	case version == 1:
		doc, err := upgradeV1(body)
		return doc, 1, err
	case version == models.CurrentVersion:
		var doc models.Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, version, fmt.Errorf("read v%d: %w", version, err)
		}
		return &doc, version, nil
	default:
		return nil, version, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}

func upgradeV0(body []byte, owner string, now func() time.Time) (*models.Document, error) {
	var old v0Document
	if err := json.Unmarshal(body, &old); err != nil {
		return nil, fmt.Errorf("read v0: %w", err)
	}
	salt, err := hex.DecodeString(old.MasterPassword.Salt)
	if err != nil {
		return nil, fmt.Errorf("read v0: salt: %w", err)
	}
	verifier, err := hex.DecodeString(old.MasterPassword.Hash)
	if err != nil {
		return nil, fmt.Errorf("read v0: hash: %w", err)
	}
	created := now().UTC()
	if old.MasterPassword.CreatedAt != nil {
		created = *old.MasterPassword.CreatedAt
	}

	doc := &models.Document{
		Version:  models.CurrentVersion,
		Users:    []models.User{{Username: owner, Salt: salt, Verifier: verifier, CreatedAt: created}},
		Wallets:  old.Wallets,
		Settings: old.Settings,
	}
	for i := range doc.Wallets {
		doc.Wallets[i].Username = owner
	}
	return doc, nil
}

func upgradeV1(body []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("read v1: %w", err)
	}
	doc.Version = models.CurrentVersion
	return &doc, nil
}
