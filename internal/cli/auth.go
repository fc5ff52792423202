package cli

import (
	"bytes"
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// Register creates a user and starts a session for it.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.in, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.out, "Choose master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getSecret(a.out, "Repeat master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}

	if err := a.vault.SetMasterPassword(ctx, username, password); err != nil {
		return err
	}
	a.startSession(username, password)
	a.printf("Registered and logged in as %s\n", username)
	return nil
}

// Login verifies the credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.in, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.out, "Master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ok, err := a.vault.VerifyPassword(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Info(ctx, "login failed")
		return common.ErrInvalidCredentials
	}
	a.startSession(username, password)
	a.printf("Logged in as %s\n", username)
	return nil
}

// Logout forgets the session password.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return nil
	}
	a.endSession()
	a.printf("Logged out\n")
	return nil
}
