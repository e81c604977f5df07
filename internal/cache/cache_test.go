package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_NilIsAnEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "cars:active", []byte("[]"), time.Minute))
	data, err := c.Get(ctx, "cars:active")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "cars:active"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestClient_UnreachableRedisFailsSafe(t *testing.T) {
	c := New("127.0.0.1:1", "", 0, "carlot:")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_StrictOperations(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0, "carlot:")
	defer c.Close()
	ctx := context.Background()

	n, err := c.Counter(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Counter(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, mr.Exists("carlot:gen"))

	require.NoError(t, c.SetStrict(ctx, "k", []byte("v"), 0))
	data, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	mr.SetError("ERR injected failure")
	assert.Error(t, c.SetStrict(ctx, "k", []byte("w"), 0))
	_, err = c.Incr(ctx, "gen")
	assert.Error(t, err)
	_, err = c.Counter(ctx, "gen")
	assert.Error(t, err)

	// lenient operations keep swallowing the same failure
	assert.NoError(t, c.Set(ctx, "k", []byte("w"), 0))
	data, err = c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestClient_StrictOperationsOnNilClient(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.ErrorIs(t, c.SetStrict(ctx, "k", []byte("v"), 0), ErrUnavailable)
	_, err := c.Incr(ctx, "gen")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = c.Counter(ctx, "gen")
	assert.ErrorIs(t, err, ErrUnavailable)
}
