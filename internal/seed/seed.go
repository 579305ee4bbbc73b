// Package seed loads the demo data set: four users, their feeds, and one
// status update with a comment in John Vilk's feed.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/internal/store"
	"github.com/d60-Lab/feedmock/pkg/logger"
)

const (
	// CurrentUserID 演示中“当前登录用户”
	CurrentUserID   = "4"
	DefaultPassword = "feedmock"
	StatusUpdateID  = "1"
)

var (
	// 2016-01-25 的演示时间
	statusPostDate  = time.Date(2016, 1, 25, 14, 12, 0, 0, time.UTC).UnixMilli()
	commentPostDate = time.Date(2016, 1, 25, 18, 40, 0, 0, time.UTC).UnixMilli()
)

// Users returns the demo users without password hashes. User N owns feed N.
func Users() []model.User {
	return []model.User{
		{ID: "1", FullName: "Someone", Username: "someone", Email: "someone@example.com", Feed: "1"},
		{ID: "2", FullName: "Someone Else", Username: "someoneelse", Email: "someone.else@example.com", Feed: "2"},
		{ID: "3", FullName: "Another Person", Username: "another", Email: "another.person@example.com", Feed: "3"},
		{ID: CurrentUserID, FullName: "John Vilk", Username: "jvilk", Email: "jvilk@example.com", Feed: "4"},
	}
}

type Repos struct {
	Users repository.UserRepository
	Feeds repository.FeedRepository
	Items repository.FeedItemRepository
}

// Load writes the demo data unless the current user already exists. Every
// user gets password as login password.
func Load(ctx context.Context, r Repos, password string) error {
	if _, err := r.Users.Get(ctx, CurrentUserID); err == nil {
		logger.Info("seed data already present, skipping")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	item := &model.FeedItem{
		ID:   StatusUpdateID,
		Type: model.TypeStatusUpdate,
		Contents: &model.StatusUpdate{
			Author:   "1",
			PostDate: statusPostDate,
			Location: "Austin, TX",
			Contents: "ate too much at the buffet\nfeeling it now",
		},
		Comments: []model.Comment{{
			Author:      "2",
			Contents:    "hope you feel better",
			PostDate:    commentPostDate,
			LikeCounter: model.LikeCounter{},
		}},
		LikeCounter: model.LikeCounter{"2", "3"},
	}
	if err := r.Items.Save(ctx, item); err != nil {
		return err
	}

	for _, u := range Users() {
		u := u
		u.PasswordHash = string(hash)
		if err := r.Users.Save(ctx, &u); err != nil {
			return err
		}
		feed := &model.Feed{ID: u.Feed, Contents: []string{}}
		if u.ID == CurrentUserID {
			feed.Contents = []string{StatusUpdateID}
		}
		if err := r.Feeds.Save(ctx, feed); err != nil {
			return err
		}
	}

	logger.Info("seed data loaded", zap.Int("users", len(Users())))
	return nil
}
