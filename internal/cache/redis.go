package cache

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisUserCache stores JSON user snapshots with a TTL.
type RedisUserCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisUserCache(client redis.UniversalClient, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: ttl}
}

func (c *RedisUserCache) GetMany(ctx context.Context, ids []string) map[string]model.User {
	cached := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return cached
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warn("user cache mget failed", zap.Error(err))
		return cached
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var u model.User
		if err := json.Unmarshal([]byte(str), &u); err == nil {
			cached[ids[i]] = u
		}
	}
	return cached
}

func (c *RedisUserCache) SetMany(ctx context.Context, users []model.User) {
	if len(users) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, u := range users {
		payload, err := json.Marshal(u)
		if err != nil {
			continue
		}
		pipe.Set(ctx, userKey(u.ID), payload, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("user cache pipeline failed", zap.Error(err))
	}
}
