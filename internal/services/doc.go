// Package services holds the vault's application services.
//
// AuthService is the authentication ledger: it turns a master password into
// a stored verifier and checks candidates against it. VaultService is the
// access façade used by the terminal host; every operation touching private
// data runs Authenticate → Derive → Act → Persist, re-verifying the master
// password on each call.
package services
