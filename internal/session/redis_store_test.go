package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestSessionLifecycle(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetSession(ctx, "reader")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SetSession(ctx, "reader", "refresh-1", time.Hour))
	got, err = s.GetSession(ctx, "reader")
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", got)
	assert.Equal(t, time.Hour, mr.TTL("session:reader"))

	require.NoError(t, s.DeleteSession(ctx, "reader"))
	got, err = s.GetSession(ctx, "reader")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Error(t, s.SetSession(ctx, "", "x", time.Hour))
	assert.Error(t, s.SetSession(ctx, "reader", "x", 0))
}

func TestDenylistExpires(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	denied, err := s.IsDenied(ctx, "atk")
	require.NoError(t, err)
	assert.False(t, denied)

	require.NoError(t, s.Deny(ctx, "atk", 30*time.Minute))
	denied, err = s.IsDenied(ctx, "atk")
	require.NoError(t, err)
	assert.True(t, denied)

	mr.FastForward(31 * time.Minute)
	denied, err = s.IsDenied(ctx, "atk")
	require.NoError(t, err)
	assert.False(t, denied)
}
