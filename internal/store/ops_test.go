package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUser_Duplicate(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	require.NoError(t, st.AppendUser(ctx, models.User{Username: "alice", Salt: []byte{1}, Verifier: []byte{2}}))
	err := st.AppendUser(ctx, models.User{Username: "alice", Salt: []byte{3}, Verifier: []byte{4}})
	require.ErrorIs(t, err, common.ErrDuplicateUser)

	users := mb.doc(t).Users
	require.Len(t, users, 1)
	assert.Equal(t, []byte{2}, users[0].Verifier)

	// Usernames are case-sensitive.
	require.NoError(t, st.AppendUser(ctx, models.User{Username: "Alice"}))
}

func TestFindUser_Missing(t *testing.T) {
	st, _ := openMem(t, "")
	_, err := st.FindUser(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestWallets_OwnershipScoping(t *testing.T) {
	st, _ := openMem(t, "")
	ctx := context.Background()

	a1, err := st.AppendWallet(ctx, models.Wallet{Username: "alice", Ciphertext: []byte{1}})
	require.NoError(t, err)
	_, err = st.AppendWallet(ctx, models.Wallet{Username: "bob", Ciphertext: []byte{2}})
	require.NoError(t, err)
	a2, err := st.AppendWallet(ctx, models.Wallet{Username: "alice", Ciphertext: []byte{3}})
	require.NoError(t, err)

	ws, err := st.WalletsOf(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, a1, ws[0].ID)
	assert.Equal(t, a2, ws[1].ID)

	_, err = st.FindWallet(ctx, "bob", a1)
	require.ErrorIs(t, err, common.ErrNotFound)

	w, err := st.FindWallet(ctx, "alice", a1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, w.Ciphertext)

	none, err := st.WalletsOf(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReplaceWallet(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	id, err := st.AppendWallet(ctx, models.Wallet{Username: "alice", Ciphertext: []byte{1}})
	require.NoError(t, err)

	ok, err := st.ReplaceWallet(ctx, models.Wallet{ID: id, Username: "alice", Ciphertext: []byte{9}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{9}, mb.doc(t).Wallets[0].Ciphertext)

	saves := mb.saveCount()
	ok, err = st.ReplaceWallet(ctx, models.Wallet{ID: id, Username: "mallory", Ciphertext: []byte{0}})
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = st.ReplaceWallet(ctx, models.Wallet{ID: id + 100, Username: "alice"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, saves, mb.saveCount(), "misses must not write")
	assert.Equal(t, []byte{9}, mb.doc(t).Wallets[0].Ciphertext)
}

func TestReplaceWallets_Batch(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	id1, _ := st.AppendWallet(ctx, models.Wallet{Username: "a", Name: "one"})
	id2, _ := st.AppendWallet(ctx, models.Wallet{Username: "a", Name: "two"})
	saves := mb.saveCount()

	n, err := st.ReplaceWallets(ctx, []models.Wallet{
		{ID: id1, Username: "a", Ciphertext: []byte{1}},
		{ID: id2, Username: "a", Ciphertext: []byte{2}},
		{ID: 1, Username: "a", Ciphertext: []byte{3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, saves+1, mb.saveCount())
	for _, w := range mb.doc(t).Wallets {
		assert.False(t, w.IsLegacy())
		assert.Empty(t, w.Name)
	}
}

func TestSealLegacyWallets_SkipsRewrittenWallets(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	legacy, _ := st.AppendWallet(ctx, models.Wallet{Username: "a", Name: "old"})
	rewritten, _ := st.AppendWallet(ctx, models.Wallet{Username: "a", Name: "old too"})

	// Another writer seals this one between the caller's read and its write.
	ok, err := st.ReplaceWallet(ctx, models.Wallet{ID: rewritten, Username: "a", Ciphertext: []byte{7}})
	require.NoError(t, err)
	require.True(t, ok)

	n, err := st.SealLegacyWallets(ctx, []models.Wallet{
		{ID: legacy, Username: "a", Ciphertext: []byte{1}},
		{ID: rewritten, Username: "a", Ciphertext: []byte{2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	w, err := st.FindWallet(ctx, "a", legacy)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, w.Ciphertext)
	w, err = st.FindWallet(ctx, "a", rewritten)
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, w.Ciphertext)

	saves := mb.saveCount()
	n, err = st.SealLegacyWallets(ctx, []models.Wallet{{ID: rewritten, Username: "a", Ciphertext: []byte{3}}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, saves, mb.saveCount())
}

func TestRemoveWalletCascade_OnlyOwnersNotes(t *testing.T) {
	st, mb := openMem(t, `{
		"version": 2,
		"users": [],
		"wallets": [{"id": 10, "username": "alice", "ciphertext": "AQ=="}],
		"notes": [
			{"id": 20, "walletId": 10, "username": "alice", "ciphertext": "AQ=="},
			{"id": 21, "walletId": 10, "username": "bob", "ciphertext": "Ag=="}
		],
		"settings": {"vaultId": "v"}
	}`)

	removed, err := st.RemoveWalletCascade(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.True(t, removed)

	doc := mb.doc(t)
	assert.Empty(t, doc.Wallets)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, int64(21), doc.Notes[0].ID)
}

func TestRemoveWalletCascade(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	w1, _ := st.AppendWallet(ctx, models.Wallet{Username: "alice", Ciphertext: []byte{1}})
	w2, _ := st.AppendWallet(ctx, models.Wallet{Username: "alice", Ciphertext: []byte{2}})
	_, err := st.AppendNote(ctx, models.Note{Username: "alice", WalletID: w1, Ciphertext: []byte{1}})
	require.NoError(t, err)
	_, err = st.AppendNote(ctx, models.Note{Username: "alice", WalletID: w1, Ciphertext: []byte{2}})
	require.NoError(t, err)
	keep, err := st.AppendNote(ctx, models.Note{Username: "alice", WalletID: w2, Ciphertext: []byte{3}})
	require.NoError(t, err)

	removed, err := st.RemoveWalletCascade(ctx, "bob", w1)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = st.RemoveWalletCascade(ctx, "alice", w1)
	require.NoError(t, err)
	assert.True(t, removed)

	doc := mb.doc(t)
	require.Len(t, doc.Wallets, 1)
	assert.Equal(t, w2, doc.Wallets[0].ID)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, keep, doc.Notes[0].ID)
	for _, n := range doc.Notes {
		assert.NotEqual(t, w1, n.WalletID, "orphan note left behind")
	}

	removed, err = st.RemoveWalletCascade(ctx, "alice", w1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestNotes(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	w, _ := st.AppendWallet(ctx, models.Wallet{Username: "alice", Ciphertext: []byte{1}})

	_, err := st.AppendNote(ctx, models.Note{Username: "alice", WalletID: w + 1, Ciphertext: []byte{1}})
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = st.AppendNote(ctx, models.Note{Username: "bob", WalletID: w, Ciphertext: []byte{1}})
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, mb.doc(t).Notes)

	nid, err := st.AppendNote(ctx, models.Note{Username: "alice", WalletID: w, Ciphertext: []byte{7}})
	require.NoError(t, err)

	notes, err := st.NotesOf(ctx, "alice", w)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, nid, notes[0].ID)

	notes, err = st.NotesOf(ctx, "bob", w)
	require.NoError(t, err)
	assert.Empty(t, notes)

	n, err := st.FindNote(ctx, "alice", nid)
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, n.Ciphertext)
	_, err = st.FindNote(ctx, "bob", nid)
	require.ErrorIs(t, err, common.ErrNotFound)

	removed, err := st.RemoveNote(ctx, "bob", nid)
	require.NoError(t, err)
	assert.False(t, removed)
	removed, err = st.RemoveNote(ctx, "alice", nid)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, mb.doc(t).Notes)
}
