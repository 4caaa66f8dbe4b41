package statefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := Open(path)
	require.NoError(t, err)
	return store, path
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	raw, err := store.Get(context.Background(), "user")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSetGet_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":1}`)))

	raw, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(raw))
}

func TestReopen_SurvivesRestart(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":1}`)))
	require.NoError(t, store.Set(ctx, "tokens", []byte(`{"accessToken":"a"}`)))

	reopened, err := Open(path)
	require.NoError(t, err)

	raw, err := reopened.Get(ctx, "tokens")
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"a"}`, string(raw))
}

func TestOpen_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o600))

	store, err := Open(path)
	require.NoError(t, err)

	raw, err := store.Get(context.Background(), "user")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDelete_RemovesKey(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":1}`)))
	require.NoError(t, store.Delete(ctx, "user"))

	raw, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.Nil(t, raw)

	// Deletion is durable too.
	reopened, err := Open(path)
	require.NoError(t, err)
	raw, err = reopened.Get(ctx, "user")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDelete_AbsentKeyIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}
