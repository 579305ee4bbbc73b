package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"

	"github.com/d60-Lab/feedmock/internal/model"
)

// LocalUserCache is an in-process cache backed by ristretto.
type LocalUserCache struct {
	marshal *marshaler.Marshaler
	ttl     time.Duration
}

func NewLocalUserCache(ttl time.Duration) (*LocalUserCache, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	manager := gocache.New[any](ristretto_store.NewRistretto(client))
	return &LocalUserCache{marshal: marshaler.New(manager), ttl: ttl}, nil
}

func (c *LocalUserCache) GetMany(ctx context.Context, ids []string) map[string]model.User {
	cached := make(map[string]model.User, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; ok {
			continue
		}
		v, err := c.marshal.Get(ctx, userKey(id), new(model.User))
		if err != nil {
			continue
		}
		if u, ok := v.(*model.User); ok {
			cached[id] = *u
		}
	}
	return cached
}

func (c *LocalUserCache) SetMany(ctx context.Context, users []model.User) {
	for _, u := range users {
		_ = c.marshal.Set(ctx, userKey(u.ID), u, store.WithExpiration(c.ttl), store.WithCost(1))
	}
}
