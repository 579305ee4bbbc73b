package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/feedmock/internal/cache"
	"github.com/d60-Lab/feedmock/internal/events"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/pkg/logger"
)

var (
	ErrCommentOutOfRange = errors.New("comment index out of range")
	ErrEmptyContents     = errors.New("contents must not be empty")
)

var tracer = otel.Tracer("github.com/d60-Lab/feedmock/internal/service")

// FeedService 动态流服务：把动态级别的操作翻译为文档的读-改-写
type FeedService interface {
	GetFeedData(ctx context.Context, userID string) (*model.ResolvedFeed, error)
	GetFeedItem(ctx context.Context, feedItemID string) (*model.ResolvedFeedItem, error)
	PostStatusUpdate(ctx context.Context, userID, location, contents string) (*model.FeedItem, error)
	PostComment(ctx context.Context, feedItemID, authorID, contents string) (*model.ResolvedFeedItem, error)
	LikeFeedItem(ctx context.Context, feedItemID, userID string) ([]model.User, error)
	UnlikeFeedItem(ctx context.Context, feedItemID, userID string) ([]model.User, error)
	LikeComment(ctx context.Context, feedItemID string, commentIdx int, userID string) ([]model.User, error)
	UnlikeComment(ctx context.Context, feedItemID string, commentIdx int, userID string) ([]model.User, error)
}

type Options struct {
	// AllowDuplicateLikes appends a like even when the user already liked the
	// target.
	AllowDuplicateLikes bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type feedService struct {
	users     repository.UserRepository
	feeds     repository.FeedRepository
	items     repository.FeedItemRepository
	resolver  *UserResolver
	publisher events.Publisher
	locks     *keyedMutex
	opts      Options
}

func NewFeedService(
	users repository.UserRepository,
	feeds repository.FeedRepository,
	items repository.FeedItemRepository,
	userCache cache.UserCache,
	publisher events.Publisher,
	opts Options,
) FeedService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &feedService{
		users:     users,
		feeds:     feeds,
		items:     items,
		resolver:  NewUserResolver(users, userCache),
		publisher: publisher,
		locks:     newKeyedMutex(),
		opts:      opts,
	}
}

func (s *feedService) GetFeedData(ctx context.Context, userID string) (*model.ResolvedFeed, error) {
	ctx, span := tracer.Start(ctx, "FeedService.GetFeedData", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	feed, err := s.feeds.Get(ctx, user.Feed)
	if err != nil {
		return nil, err
	}

	items := make([]*model.FeedItem, 0, len(feed.Contents))
	var ids []string
	for _, id := range feed.Contents {
		item, err := s.items.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		ids = append(ids, referencedUsers(item)...)
	}

	users, err := s.resolver.ResolveMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := &model.ResolvedFeed{ID: feed.ID, Contents: make([]model.ResolvedFeedItem, 0, len(items))}
	for _, item := range items {
		res.Contents = append(res.Contents, project(item, users))
	}
	return res, nil
}

func (s *feedService) GetFeedItem(ctx context.Context, feedItemID string) (*model.ResolvedFeedItem, error) {
	item, err := s.items.Get(ctx, feedItemID)
	if err != nil {
		return nil, err
	}
	return s.resolveItem(ctx, item)
}

func (s *feedService) PostStatusUpdate(ctx context.Context, userID, location, contents string) (*model.FeedItem, error) {
	ctx, span := tracer.Start(ctx, "FeedService.PostStatusUpdate", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if strings.TrimSpace(contents) == "" {
		return nil, ErrEmptyContents
	}
	// 先确认用户存在，避免插入孤儿条目
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.Create(ctx, model.NewStatusUpdate(userID, location, contents, s.now()))
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(model.CollectionFeeds + "/" + user.Feed)
	defer unlock()
	feed, err := s.feeds.Get(ctx, user.Feed)
	if err != nil {
		return nil, err
	}
	feed.Prepend(item.ID)
	if err := s.feeds.Save(ctx, feed); err != nil {
		return nil, err
	}

	logger.Debug("status update posted", zap.String("user", userID), zap.String("feed_item", item.ID))
	s.publish(ctx, events.Event{Type: events.StatusPosted, FeedItemID: item.ID, UserID: userID})
	return item, nil
}

func (s *feedService) PostComment(ctx context.Context, feedItemID, authorID, contents string) (*model.ResolvedFeedItem, error) {
	ctx, span := tracer.Start(ctx, "FeedService.PostComment", trace.WithAttributes(attribute.String("feed_item.id", feedItemID)))
	defer span.End()

	if strings.TrimSpace(contents) == "" {
		return nil, ErrEmptyContents
	}
	if _, err := s.users.Get(ctx, authorID); err != nil {
		return nil, err
	}

	item, _, err := s.mutateItem(ctx, feedItemID, func(item *model.FeedItem) (bool, error) {
		item.Comments = append(item.Comments, model.Comment{
			Author:      authorID,
			Contents:    contents,
			PostDate:    s.now(),
			LikeCounter: model.LikeCounter{},
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	idx := len(item.Comments) - 1
	logger.Debug("comment posted", zap.String("feed_item", feedItemID), zap.String("author", authorID), zap.Int("idx", idx))
	s.publish(ctx, events.Event{Type: events.CommentPosted, FeedItemID: feedItemID, UserID: authorID, CommentIndex: &idx})
	return s.resolveItem(ctx, item)
}

func (s *feedService) LikeFeedItem(ctx context.Context, feedItemID, userID string) ([]model.User, error) {
	return s.toggleItemLike(ctx, feedItemID, userID, true)
}

func (s *feedService) UnlikeFeedItem(ctx context.Context, feedItemID, userID string) ([]model.User, error) {
	return s.toggleItemLike(ctx, feedItemID, userID, false)
}

func (s *feedService) LikeComment(ctx context.Context, feedItemID string, commentIdx int, userID string) ([]model.User, error) {
	return s.toggleCommentLike(ctx, feedItemID, commentIdx, userID, true)
}

func (s *feedService) UnlikeComment(ctx context.Context, feedItemID string, commentIdx int, userID string) ([]model.User, error) {
	return s.toggleCommentLike(ctx, feedItemID, commentIdx, userID, false)
}

func (s *feedService) toggleItemLike(ctx context.Context, feedItemID, userID string, like bool) ([]model.User, error) {
	ctx, span := tracer.Start(ctx, "FeedService.ToggleItemLike", trace.WithAttributes(
		attribute.String("feed_item.id", feedItemID),
		attribute.Bool("like", like),
	))
	defer span.End()

	if like {
		if _, err := s.users.Get(ctx, userID); err != nil {
			return nil, err
		}
	}

	item, changed, err := s.mutateItem(ctx, feedItemID, func(item *model.FeedItem) (bool, error) {
		return applyLike(&item.LikeCounter, userID, like, s.opts.AllowDuplicateLikes), nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		evType := events.ItemLiked
		if !like {
			evType = events.ItemUnliked
		}
		logger.Debug("feed item like changed", zap.String("feed_item", feedItemID), zap.String("user", userID), zap.Bool("like", like))
		s.publish(ctx, events.Event{Type: evType, FeedItemID: feedItemID, UserID: userID})
	}
	return s.resolver.Resolve(ctx, item.LikeCounter)
}

func (s *feedService) toggleCommentLike(ctx context.Context, feedItemID string, commentIdx int, userID string, like bool) ([]model.User, error) {
	ctx, span := tracer.Start(ctx, "FeedService.ToggleCommentLike", trace.WithAttributes(
		attribute.String("feed_item.id", feedItemID),
		attribute.Int("comment.idx", commentIdx),
		attribute.Bool("like", like),
	))
	defer span.End()

	if like {
		if _, err := s.users.Get(ctx, userID); err != nil {
			return nil, err
		}
	}

	item, changed, err := s.mutateItem(ctx, feedItemID, func(item *model.FeedItem) (bool, error) {
		c, ok := item.Comment(commentIdx)
		if !ok {
			return false, fmt.Errorf("%w: %d of %d on %s", ErrCommentOutOfRange, commentIdx, len(item.Comments), feedItemID)
		}
		return applyLike(&c.LikeCounter, userID, like, s.opts.AllowDuplicateLikes), nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		evType := events.CommentLiked
		if !like {
			evType = events.CommentUnliked
		}
		logger.Debug("comment like changed", zap.String("feed_item", feedItemID), zap.Int("idx", commentIdx), zap.String("user", userID), zap.Bool("like", like))
		s.publish(ctx, events.Event{Type: evType, FeedItemID: feedItemID, UserID: userID, CommentIndex: &commentIdx})
	}
	return s.resolver.Resolve(ctx, item.Comments[commentIdx].LikeCounter)
}

func applyLike(lc *model.LikeCounter, userID string, like, allowDuplicate bool) bool {
	if like {
		return lc.Add(userID, allowDuplicate)
	}
	return lc.Remove(userID)
}

// mutateItem runs one read-modify-write cycle on a feed item under its lock.
// fn reports whether it changed the item; unchanged items are not written back.
func (s *feedService) mutateItem(ctx context.Context, feedItemID string, fn func(*model.FeedItem) (bool, error)) (*model.FeedItem, bool, error) {
	unlock := s.locks.Lock(model.CollectionFeedItems + "/" + feedItemID)
	defer unlock()

	item, err := s.items.Get(ctx, feedItemID)
	if err != nil {
		return nil, false, err
	}
	changed, err := fn(item)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return item, false, nil
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, false, err
	}
	return item, true, nil
}

func (s *feedService) resolveItem(ctx context.Context, item *model.FeedItem) (*model.ResolvedFeedItem, error) {
	users, err := s.resolver.ResolveMap(ctx, referencedUsers(item))
	if err != nil {
		return nil, err
	}
	res := project(item, users)
	return &res, nil
}

func (s *feedService) publish(ctx context.Context, ev events.Event) {
	ev.OccurredAt = s.opts.Now().UTC()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Warn("publish feed event failed", zap.String("type", ev.Type), zap.String("feed_item", ev.FeedItemID), zap.Error(err))
	}
}

// now returns the current time in Unix milliseconds.
func (s *feedService) now() int64 {
	return s.opts.Now().UnixMilli()
}
