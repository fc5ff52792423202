package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDefaultDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure-data", "wallets.json")
	st, err := Open(context.Background(), document.NewFileBackend(path))
	require.NoError(t, err)
	defer st.Close()

	body, err := document.NewFileBackend(path).Load(context.Background())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.JSONEq(t, `2`, string(raw["version"]))
	assert.JSONEq(t, `[]`, string(raw["users"]))
	assert.JSONEq(t, `[]`, string(raw["wallets"]))
	assert.JSONEq(t, `[]`, string(raw["notes"]))

	var settings models.Settings
	require.NoError(t, json.Unmarshal(raw["settings"], &settings))
	assert.NotEmpty(t, settings.VaultID)
}

func TestOpen_KeepsVaultID(t *testing.T) {
	st, mb := openMem(t, `{"version":2,"users":[],"wallets":[],"notes":[],"settings":{"vaultId":"abc"}}`)
	defer st.Close()
	assert.Equal(t, "abc", mb.doc(t).Settings.VaultID)
	assert.Equal(t, 0, mb.saveCount(), "current document needs no rewrite")
}

func TestOpen_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mb     *memBackend
		target error
	}{
		{"load error", &memBackend{loadErr: errors.New("disk gone")}, common.ErrStorageUnavailable},
		{"save error", &memBackend{saveErr: errors.New("read-only")}, common.ErrStorageUnavailable},
		{"garbage", &memBackend{body: []byte("{not json")}, common.ErrStorageUnavailable},
		{"future version", &memBackend{body: []byte(`{"version":99}`)}, ErrUnsupportedVersion},
		{"bad v0 salt", &memBackend{body: []byte(`{"masterPassword":{"hash":"00","salt":"zz"}}`)}, common.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Open(context.Background(), tt.mb)
			require.ErrorIs(t, err, tt.target)
			require.ErrorIs(t, err, common.ErrStorageUnavailable)
			assert.Nil(t, st)
		})
	}
}

func TestOpen_UpgradesV0(t *testing.T) {
	legacy := `{
		"masterPassword": {"hash": "beef", "salt": "dead", "createdAt": "2023-03-01T10:00:00Z"},
		"wallets": [
			{"id": 1700000000000, "name": "Main", "address": "0xabc", "privateKey": "U2FsdGVk", "createdAt": "2023-03-02T10:00:00Z"}
		],
		"settings": {}
	}`
	st, mb := openMem(t, legacy, WithLegacyOwner("satoshi"))
	defer st.Close()

	doc := mb.doc(t)
	assert.Equal(t, models.CurrentVersion, doc.Version)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "satoshi", doc.Users[0].Username)
	assert.Equal(t, []byte{0xde, 0xad}, doc.Users[0].Salt)
	assert.Equal(t, []byte{0xbe, 0xef}, doc.Users[0].Verifier)
	assert.Equal(t, time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC), doc.Users[0].CreatedAt.UTC())

	require.Len(t, doc.Wallets, 1)
	w := doc.Wallets[0]
	assert.Equal(t, "satoshi", w.Username)
	assert.True(t, w.IsLegacy())
	assert.Equal(t, "Main", w.Name)
	assert.Equal(t, "U2FsdGVk", w.PrivateKey)
	assert.NotNil(t, doc.Notes)
}

func TestOpen_UpgradesV0DefaultOwner(t *testing.T) {
	st, mb := openMem(t, `{"masterPassword":{"hash":"00","salt":"11"},"wallets":[]}`)
	defer st.Close()
	require.Len(t, mb.doc(t).Users, 1)
	assert.Equal(t, DefaultLegacyOwner, mb.doc(t).Users[0].Username)
}

func TestOpen_UpgradesV1(t *testing.T) {
	v1 := `{
		"users": [{"username":"alice","hash":"aa","salt":"bb","createdAt":"2024-01-01T00:00:00Z"}],
		"wallets": [{"id": 5, "username":"alice","name":"W","address":"A","privateKey":"x","createdAt":"2024-01-02T00:00:00Z"}],
		"settings": {}
	}`
	st, mb := openMem(t, v1)
	defer st.Close()

	doc := mb.doc(t)
	assert.Equal(t, models.CurrentVersion, doc.Version)
	assert.NotNil(t, doc.Notes)
	assert.Empty(t, doc.Notes)
	require.Len(t, doc.Wallets, 1)
	assert.Equal(t, "alice", doc.Wallets[0].Username)
	assert.True(t, doc.Wallets[0].IsLegacy())
}

func TestView_InitialisesMissingNotes(t *testing.T) {
	mb := &memBackend{body: []byte(`{"version":2,"users":[],"wallets":[],"settings":{"vaultId":"v"}}`)}
	st, err := Open(context.Background(), mb)
	require.NoError(t, err)
	assert.Equal(t, 1, mb.saveCount())

	// Another writer drops the collection again; the next read restores it.
	mb.body = []byte(`{"version":2,"users":[],"wallets":[],"settings":{"vaultId":"v"}}`)
	notes, err := st.NotesOf(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, 2, mb.saveCount())
	assert.NotNil(t, mb.doc(t).Notes)
}

func TestStore_RereadsBackendOnEveryOperation(t *testing.T) {
	st, mb := openMem(t, "")
	ctx := context.Background()

	d := mb.doc(t)
	d.Users = append(d.Users, models.User{Username: "bob", Salt: []byte{1}, Verifier: []byte{2}})
	b, err := json.Marshal(d)
	require.NoError(t, err)
	mb.body = b

	u, err := st.FindUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
}

func TestStore_UpdateErrorSkipsWrite(t *testing.T) {
	st, mb := openMem(t, "")
	before := mb.saveCount()

	err := st.Update(context.Background(), func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.User{Username: "x"})
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, before, mb.saveCount())
	assert.Empty(t, mb.doc(t).Users)
}

func TestStore_SaveFailureWrapsStorageUnavailable(t *testing.T) {
	st, mb := openMem(t, "")
	mb.saveErr = errors.New("disk full")

	_, err := st.AppendWallet(context.Background(), models.Wallet{Username: "a", Ciphertext: []byte{1}})
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestStore_Close(t *testing.T) {
	st, mb := openMem(t, "")
	require.NoError(t, st.Close())
	assert.True(t, mb.closed)
}

func TestNextID_MonotonicUnderFrozenClock(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_000)
	st, _ := openMem(t, "", WithClock(frozenClock(ts)))
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.AppendWallet(ctx, models.Wallet{Username: "a", Ciphertext: []byte{1}})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	nid, err := st.AppendNote(ctx, models.Note{Username: "a", WalletID: ids[0], Ciphertext: []byte{1}})
	require.NoError(t, err)
	ids = append(ids, nid)

	assert.Equal(t, []int64{ts.UnixMilli(), ts.UnixMilli() + 1, ts.UnixMilli() + 2, ts.UnixMilli() + 3}, ids)
}

func TestNextID_AboveExistingWhenClockIsBehind(t *testing.T) {
	body := `{"version":2,"users":[],"wallets":[{"id":5000,"username":"a","ciphertext":"AQ=="}],"notes":[{"id":7000,"walletId":5000,"username":"a","ciphertext":"AQ=="}],"settings":{"vaultId":"v"}}`
	st, _ := openMem(t, body, WithClock(frozenClock(time.UnixMilli(10))))

	id, err := st.AppendWallet(context.Background(), models.Wallet{Username: "a", Ciphertext: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, int64(7001), id)
}

func TestStore_ConcurrentAppendsGetDistinctIDs(t *testing.T) {
	st, mb := openMem(t, "", WithClock(frozenClock(time.UnixMilli(42))))
	ctx := context.Background()

	const n = 20
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := st.AppendWallet(ctx, models.Wallet{Username: "a", Ciphertext: []byte{1}})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, mb.doc(t).Wallets, n)
}

func TestDecode_VersionDetection(t *testing.T) {
	now := frozenClock(time.Unix(0, 0))
	tests := []struct {
		name string
		body string
		from int
	}{
		{"untagged multi-user", `{"users":[],"wallets":[]}`, 1},
		{"explicit zero without master", `{"version":0,"users":[],"wallets":[]}`, 1},
		{"explicit one", `{"version":1,"users":[]}`, 1},
		{"single user", `{"masterPassword":{"hash":"","salt":""},"wallets":[]}`, 0},
		{"null master", `{"masterPassword":null,"users":[]}`, 1},
		{"current", `{"version":2,"users":[],"wallets":[],"notes":[]}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, from, err := decode([]byte(tt.body), "owner", now)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			if tt.from != models.CurrentVersion {
				assert.Equal(t, models.CurrentVersion, doc.Version)
			}
		})
	}
}
