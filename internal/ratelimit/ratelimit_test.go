package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rl, err := NewRedis("redis://"+mr.Addr(), limit, window)
	require.NoError(t, err)
	t.Cleanup(func() { rl.Close() })
	return rl, mr
}

func TestAllowUnderLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "key-a")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := rl.Allow(ctx, "key-a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := rl.Allow(ctx, "key-a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rl.Allow(ctx, "key-a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = rl.Allow(ctx, "key-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindowSlides(t *testing.T) {
	rl, mr := newTestLimiter(t, 1, time.Second)
	ctx := context.Background()

	ok, err := rl.Allow(ctx, "key-a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rl.Allow(ctx, "key-a")
	require.NoError(t, err)
	require.False(t, ok)

	// miniredis time is frozen; the wall clock driving the window moves on
	// its own, so just wait out the window.
	time.Sleep(1100 * time.Millisecond)
	mr.FastForward(2 * time.Second)

	ok, err = rl.Allow(ctx, "key-a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNoOpAlwaysAllows(t *testing.T) {
	rl := NoOp{}
	ok, err := rl.Allow(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, rl.Close())
}

func TestNewRedisBadURL(t *testing.T) {
	_, err := NewRedis("::nope", 1, time.Second)
	assert.Error(t, err)
}
