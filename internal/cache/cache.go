// Package cache holds user snapshots used when resolving feed items.
// Lookups are best effort: a cache error behaves like a miss.
package cache

import (
	"context"

	"github.com/d60-Lab/feedmock/internal/model"
)

// UserCache 用户快照缓存
type UserCache interface {
	// GetMany returns the cached users among ids, keyed by id. Misses are omitted.
	GetMany(ctx context.Context, ids []string) map[string]model.User
	SetMany(ctx context.Context, users []model.User)
}

// Nop never caches anything.
type Nop struct{}

func (Nop) GetMany(context.Context, []string) map[string]model.User { return map[string]model.User{} }
func (Nop) SetMany(context.Context, []model.User)                   {}

func userKey(id string) string { return "user:" + id }
