package repository

import (
	"context"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/store"
)

type FeedItemRepository interface {
	Get(ctx context.Context, feedItemID string) (*model.FeedItem, error)
	// Create 由存储分配 ID
	Create(ctx context.Context, item *model.FeedItem) (*model.FeedItem, error)
	Save(ctx context.Context, item *model.FeedItem) error
}

type feedItemRepository struct {
	items *store.Collection[model.FeedItem, *model.FeedItem]
}

func NewFeedItemRepository(backend store.Backend) FeedItemRepository {
	return &feedItemRepository{items: store.NewCollection[model.FeedItem](backend, model.CollectionFeedItems)}
}

func (r *feedItemRepository) Get(ctx context.Context, feedItemID string) (*model.FeedItem, error) {
	return r.items.Read(ctx, feedItemID)
}

func (r *feedItemRepository) Create(ctx context.Context, item *model.FeedItem) (*model.FeedItem, error) {
	return r.items.Add(ctx, item)
}

func (r *feedItemRepository) Save(ctx context.Context, item *model.FeedItem) error {
	return r.items.Write(ctx, item)
}
