package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedmock/internal/model"
)

func TestRedisUserCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisUserCache(client, time.Minute)
	ctx := context.Background()

	assert.Empty(t, c.GetMany(ctx, []string{"1"}))

	c.SetMany(ctx, []model.User{
		{ID: "1", FullName: "Someone"},
		{ID: "4", FullName: "John Vilk", Feed: "4"},
	})
	got := c.GetMany(ctx, []string{"4", "2", "1"})
	require.Len(t, got, 2)
	assert.Equal(t, "John Vilk", got["4"].FullName)
	assert.Equal(t, "4", got["4"].Feed)

	mr.FastForward(2 * time.Minute)
	assert.Empty(t, c.GetMany(ctx, []string{"1", "4"}))
}

func TestRedisUserCacheDownIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	c := NewRedisUserCache(client, time.Minute)
	c.SetMany(context.Background(), []model.User{{ID: "1"}})
	assert.Empty(t, c.GetMany(context.Background(), []string{"1"}))
}

func TestLocalUserCache(t *testing.T) {
	c, err := NewLocalUserCache(time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	c.SetMany(ctx, []model.User{{ID: "4", FullName: "John Vilk"}})
	// ristretto applies sets asynchronously
	assert.Eventually(t, func() bool {
		got := c.GetMany(ctx, []string{"4", "5"})
		return len(got) == 1 && got["4"].FullName == "John Vilk"
	}, time.Second, 10*time.Millisecond)
}

func TestNop(t *testing.T) {
	var c UserCache = Nop{}
	c.SetMany(context.Background(), []model.User{{ID: "1"}})
	assert.Empty(t, c.GetMany(context.Background(), []string{"1"}))
}
