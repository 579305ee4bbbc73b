package service

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/d60-Lab/feedmock/internal/cache"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/repository"
)

// UserResolver replaces user ids with public user records, going through the
// user cache before the store.
type UserResolver struct {
	users repository.UserRepository
	cache cache.UserCache

	storeLoads atomic.Int64
}

func NewUserResolver(users repository.UserRepository, userCache cache.UserCache) *UserResolver {
	if userCache == nil {
		userCache = cache.Nop{}
	}
	return &UserResolver{users: users, cache: userCache}
}

// ResolveMap loads every distinct id. A missing user fails the whole call with
// store.ErrNotFound.
func (r *UserResolver) ResolveMap(ctx context.Context, ids []string) (map[string]model.User, error) {
	uniq := lo.Uniq(ids)
	found := r.cache.GetMany(ctx, uniq)

	missing := lo.Filter(uniq, func(id string, _ int) bool {
		_, ok := found[id]
		return !ok
	})
	if len(missing) == 0 {
		return found, nil
	}

	r.storeLoads.Add(int64(len(missing)))
	loaded := make([]model.User, 0, len(missing))
	for _, id := range missing {
		u, err := r.users.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		pub := u.Public()
		found[id] = pub
		loaded = append(loaded, pub)
	}
	r.cache.SetMany(ctx, loaded)
	return found, nil
}

// Resolve returns users in the order of ids, duplicates included.
func (r *UserResolver) Resolve(ctx context.Context, ids []string) ([]model.User, error) {
	users, err := r.ResolveMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	return pick(users, ids), nil
}

// StoreLoads reports how many users were read from the store rather than the cache.
func (r *UserResolver) StoreLoads() int64 { return r.storeLoads.Load() }

func pick(users map[string]model.User, ids []string) []model.User {
	return lo.Map(ids, func(id string, _ int) model.User { return users[id] })
}

// referencedUsers lists every user id a feed item points at.
func referencedUsers(item *model.FeedItem) []string {
	ids := make([]string, 0, 1+len(item.LikeCounter)+len(item.Comments))
	if su, ok := item.Contents.(*model.StatusUpdate); ok {
		ids = append(ids, su.Author)
	}
	ids = append(ids, item.LikeCounter...)
	for _, c := range item.Comments {
		ids = append(ids, c.Author)
		ids = append(ids, c.LikeCounter...)
	}
	return ids
}

// project builds the resolved form of item; users must hold every referenced id.
func project(item *model.FeedItem, users map[string]model.User) model.ResolvedFeedItem {
	comments := lo.Map(item.Comments, func(c model.Comment, _ int) model.ResolvedComment {
		return model.ResolvedComment{
			Author:      users[c.Author],
			Contents:    c.Contents,
			PostDate:    c.PostDate,
			LikeCounter: pick(users, c.LikeCounter),
		}
	})
	return model.ResolvedFeedItem{
		ID:          item.ID,
		Type:        item.Type,
		Contents:    projectContents(item, users),
		Comments:    comments,
		LikeCounter: pick(users, item.LikeCounter),
	}
}

func projectContents(item *model.FeedItem, users map[string]model.User) model.ResolvedContents {
	switch c := item.Contents.(type) {
	case *model.StatusUpdate:
		return &model.ResolvedStatusUpdate{
			Author:   users[c.Author],
			PostDate: c.PostDate,
			Location: c.Location,
			Contents: c.Contents,
		}
	case *model.UnknownContents:
		return &model.ResolvedUnknown{Type: c.Type, Raw: c.Raw}
	default:
		return &model.ResolvedUnknown{Type: item.Type}
	}
}
