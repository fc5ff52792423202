package models

// CurrentVersion is the schema version written by this build.
//
// Version history:
//
//	0  single-user file: a masterPassword object and flat wallets
//	1  multi-user file without a version tag or notes collection
//	2  versioned envelope with sealed wallets and notes
const CurrentVersion = 2

// Settings is the free-form settings object of the document.
type Settings struct {
	VaultID string `json:"vaultId,omitempty"`
}

// Document is the whole persisted vault.
type Document struct {
	Version  int      `json:"version"`
	Users    []User   `json:"users"`
	Wallets  []Wallet `json:"wallets"`
	Notes    []Note   `json:"notes"`
	Settings Settings `json:"settings"`
}

// EnsureCollections replaces nil collections with empty ones and reports
// whether anything changed.
func (d *Document) EnsureCollections() bool {
	changed := false
	if d.Users == nil {
		d.Users = []User{}
		changed = true
	}
	if d.Wallets == nil {
		d.Wallets = []Wallet{}
		changed = true
	}
	if d.Notes == nil {
		d.Notes = []Note{}
		changed = true
	}
	return changed
}

// MaxID returns the largest wallet or note id in d.
func (d *Document) MaxID() int64 {
	var max int64
	for _, w := range d.Wallets {
		if w.ID > max {
			max = w.ID
		}
	}
	for _, n := range d.Notes {
		if n.ID > max {
			max = n.ID
		}
	}
	return max
}
