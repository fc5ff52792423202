// Package cli implements the interactive walletkeeper terminal.
//
// The App keeps the logged-in username and master password for the session
// and passes them to the vault façade on every command; the façade
// re-verifies the password each time. The password is held in locked memory
// where the platform allows and wiped on logout and exit.
package cli
