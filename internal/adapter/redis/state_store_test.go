package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStateStore(client), mr
}

func TestStateStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":1}`)))

	raw, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), raw)
}

func TestStateStore_AbsentKey(t *testing.T) {
	store, _ := newTestStore(t)

	raw, err := store.Get(context.Background(), "tokens")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStateStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":1}`)))
	require.NoError(t, store.Delete(ctx, "user"))

	raw, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStateStore_KeysAreNamespaced(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":1}`)))

	got, err := mr.Get("streamapp:session:user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, got)
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient("not-a-url")
	assert.Error(t, err)
}

func TestNewClient_AndPing(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	assert.NoError(t, Ping(context.Background(), client))
}
