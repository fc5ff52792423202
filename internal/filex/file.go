// Package filex has small filesystem helpers for the vault's on-disk
// backends.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// PrivateDirPerm is the mode for directories holding vault data.
const PrivateDirPerm = 0o700

// EnsureParentDir creates the directory that will contain path, owner-only,
// and returns it. Existing directories are left as they are.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, PrivateDirPerm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
