package cli

import (
	"errors"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

var (
	errNotLoggedIn      = errors.New("not logged in")
	errPasswordMismatch = errors.New("passwords do not match")
	errBadID            = errors.New("id must be a number")
)

// userMessage turns service errors into text for the terminal.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errNotLoggedIn):
		return "please log in first"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid username or master password"
	case errors.Is(err, common.ErrDuplicateUser):
		return "username already exists"
	case errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, errPasswordMismatch),
		errors.Is(err, errBadID):
		return err.Error()
	case errors.Is(err, common.ErrNotFound):
		return "no such wallet or note"
	case errors.Is(err, common.ErrRecordUndecryptable):
		return "record cannot be decrypted"
	case errors.Is(err, common.ErrStorageUnavailable):
		return "vault storage unavailable, try again"
	default:
		return err.Error()
	}
}
