package statestore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("file:" + filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStateKeys(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t.Run("get unset key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "authToken", "abc"))
		value, ok, err := store.Get(ctx, "authToken")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "authToken", "def"))
		value, _, err := store.Get(ctx, "authToken")
		require.NoError(t, err)
		assert.Equal(t, "def", value)
	})

	t.Run("delete multiple keys", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "currentUser", "{}"))
		require.NoError(t, store.Delete(ctx, "authToken", "currentUser", "neverSet"))

		_, ok, err := store.Get(ctx, "authToken")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = store.Get(ctx, "currentUser")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCollections(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t.Run("unwritten collection is nil without error", func(t *testing.T) {
		raw, err := store.ReadCollection(ctx, "employees")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("write and read back", func(t *testing.T) {
		snapshot := json.RawMessage(`[{"employeeId":"emp-001"}]`)
		require.NoError(t, store.WriteCollection(ctx, "employees", snapshot))

		raw, err := store.ReadCollection(ctx, "employees")
		require.NoError(t, err)
		assert.JSONEq(t, string(snapshot), string(raw))
	})

	t.Run("write replaces the whole snapshot", func(t *testing.T) {
		require.NoError(t, store.WriteCollection(ctx, "employees", json.RawMessage(`[]`)))
		raw, err := store.ReadCollection(ctx, "employees")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("empty written collection is not nil", func(t *testing.T) {
		raw, err := store.ReadCollection(ctx, "employees")
		require.NoError(t, err)
		assert.NotNil(t, raw)
	})
}

func TestPersistenceAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "state.db")

	store, err := Open(dsn)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "currentUser", `{"id":"emp-001"}`))
	require.NoError(t, store.WriteCollection(ctx, "leaveRequests", json.RawMessage(`[{"requestId":"101"}]`)))
	require.NoError(t, store.Close())

	reopened, err := Open(dsn)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"emp-001"}`, value)

	raw, err := reopened.ReadCollection(ctx, "leaveRequests")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"requestId":"101"}]`, string(raw))
}
