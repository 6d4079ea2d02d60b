package realtime_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edukhmer/notifykit/pkg/realtime"
)

// Requires a running Redis; skipped unless TEST_REDIS_URL is set.
func presenceClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisPresence(t *testing.T) {
	ctx := context.Background()
	client := presenceClient(t)
	presence := realtime.NewRedisPresence(client, realtime.WithKeyPrefix("test:presence:"))

	t.Cleanup(func() {
		client.Del(ctx, "test:presence:u1")
	})

	online, err := presence.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, presence.Connected(ctx, "u1", "c1"))
	require.NoError(t, presence.Connected(ctx, "u1", "c2"))

	online, err = presence.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, online)

	// One connection left: still online.
	require.NoError(t, presence.Disconnected(ctx, "u1", "c1"))
	online, err = presence.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, online)

	// Last one gone: offline, key removed.
	require.NoError(t, presence.Disconnected(ctx, "u1", "c2"))
	online, err = presence.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, online)
}
