// Package store is the vault's single source of truth: one versioned
// document held by a document.Backend.
//
// Every operation re-reads the whole document, applies its change in memory
// and writes the whole document back while holding the store's mutex, so a
// Store may be shared by concurrent callers in one process. Two processes
// writing the same backend are not coordinated.
//
// Older layouts are upgraded on read:
//
//	v0  {"masterPassword":{...},"wallets":[...]}       one implicit owner
//	v1  {"users":[...],"wallets":[...],"settings":{}}  no tag, no notes
//	v2  {"version":2,"users":[...],"wallets":[...],"notes":[...],"settings":{...}}
//
// Typical usage:
//
//	st, err := store.Open(ctx, document.NewFileBackend(path), store.WithLogger(log))
//	if err != nil { ... }
//	defer st.Close()
//	ws, err := st.WalletsOf(ctx, "alice")
package store
