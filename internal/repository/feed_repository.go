package repository

import (
	"context"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/store"
)

type FeedRepository interface {
	Get(ctx context.Context, feedID string) (*model.Feed, error)
	Save(ctx context.Context, feed *model.Feed) error
}

type feedRepository struct {
	feeds *store.Collection[model.Feed, *model.Feed]
}

func NewFeedRepository(backend store.Backend) FeedRepository {
	return &feedRepository{feeds: store.NewCollection[model.Feed](backend, model.CollectionFeeds)}
}

func (r *feedRepository) Get(ctx context.Context, feedID string) (*model.Feed, error) {
	return r.feeds.Read(ctx, feedID)
}

func (r *feedRepository) Save(ctx context.Context, feed *model.Feed) error {
	return r.feeds.Write(ctx, feed)
}
