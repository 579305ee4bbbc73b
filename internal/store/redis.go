package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each collection as one hash: <prefix>:<collection> -> id -> body.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "feedmock"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(collection string) string {
	return fmt.Sprintf("%s:%s", r.prefix, collection)
}

func (r *RedisBackend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	body, err := r.client.HGet(ctx, r.key(collection), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return body, err
}

func (r *RedisBackend) Put(ctx context.Context, collection, id string, body []byte) error {
	return r.client.HSet(ctx, r.key(collection), id, body).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, collection, id string) error {
	return r.client.HDel(ctx, r.key(collection), id).Err()
}

func (r *RedisBackend) Len(ctx context.Context, collection string) (int, error) {
	n, err := r.client.HLen(ctx, r.key(collection)).Result()
	return int(n), err
}
