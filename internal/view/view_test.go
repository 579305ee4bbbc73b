package view

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedmock/internal/cache"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/internal/service"
	"github.com/d60-Lab/feedmock/internal/store"
)

func init() {
	color.NoColor = true
}

var (
	someone  = model.User{ID: "1", FullName: "Someone", Feed: "1"}
	other    = model.User{ID: "2", FullName: "Someone Else", Feed: "2"}
	johnVilk = model.User{ID: "4", FullName: "John Vilk", Feed: "4"}
)

type call struct {
	op, feedItemID, userID, text string
}

type fakeFeed struct {
	calls []call
	likes []model.User
	item  *model.ResolvedFeedItem
	err   error
}

func (f *fakeFeed) LikeFeedItem(_ context.Context, id, userID string, cb func([]model.User)) error {
	f.calls = append(f.calls, call{op: "like", feedItemID: id, userID: userID})
	if f.err != nil {
		return f.err
	}
	cb(f.likes)
	return nil
}

func (f *fakeFeed) UnlikeFeedItem(_ context.Context, id, userID string, cb func([]model.User)) error {
	f.calls = append(f.calls, call{op: "unlike", feedItemID: id, userID: userID})
	if f.err != nil {
		return f.err
	}
	cb(f.likes)
	return nil
}

func (f *fakeFeed) PostComment(_ context.Context, id, authorID, text string, cb func(*model.ResolvedFeedItem)) error {
	f.calls = append(f.calls, call{op: "comment", feedItemID: id, userID: authorID, text: text})
	if f.err != nil {
		return f.err
	}
	cb(f.item)
	return nil
}

func statusItem(likes ...model.User) model.ResolvedFeedItem {
	return model.ResolvedFeedItem{
		ID:   "item-1",
		Type: model.TypeStatusUpdate,
		Contents: &model.ResolvedStatusUpdate{
			Author:   someone,
			PostDate: time.Date(2016, 1, 25, 9, 30, 0, 0, time.UTC).UnixMilli(),
			Location: "Austin, TX",
			Contents: "ate too much\nat the buffet",
		},
		Comments: []model.ResolvedComment{{
			Author:      other,
			Contents:    "hope you feel better",
			PostDate:    time.Date(2016, 1, 25, 10, 0, 0, 0, time.UTC).UnixMilli(),
			LikeCounter: []model.User{johnVilk},
		}},
		LikeCounter: likes,
	}
}

func TestDidUserLike(t *testing.T) {
	assert.False(t, New(statusItem(someone), "4", &fakeFeed{}).DidUserLike())
	assert.True(t, New(statusItem(someone, johnVilk), "4", &fakeFeed{}).DidUserLike())
}

func TestToggleLikeReplacesOnlyLikeCounter(t *testing.T) {
	feed := &fakeFeed{likes: []model.User{someone, johnVilk}}
	v := New(statusItem(someone), "4", feed)

	require.NoError(t, v.ToggleLike(context.Background()))
	require.Len(t, feed.calls, 1)
	assert.Equal(t, call{op: "like", feedItemID: "item-1", userID: "4"}, feed.calls[0])

	v.Apply(<-v.Updates())
	state := v.State()
	assert.Equal(t, []model.User{someone, johnVilk}, state.LikeCounter)
	assert.Equal(t, statusItem().Comments, state.Comments)
	assert.Equal(t, statusItem().Contents, state.Contents)
	assert.True(t, v.DidUserLike())

	feed.likes = []model.User{someone}
	require.NoError(t, v.ToggleLike(context.Background()))
	assert.Equal(t, "unlike", feed.calls[1].op)
	v.Apply(<-v.Updates())
	assert.False(t, v.DidUserLike())
}

func TestToggleLikeErrorLeavesState(t *testing.T) {
	feed := &fakeFeed{err: store.ErrNotFound}
	v := New(statusItem(), "4", feed)

	assert.ErrorIs(t, v.ToggleLike(context.Background()), store.ErrNotFound)
	assert.Empty(t, v.Updates())
	assert.Empty(t, v.State().LikeCounter)
}

func TestPostCommentReplacesWholeState(t *testing.T) {
	replaced := statusItem(someone)
	replaced.Comments = append(replaced.Comments, model.ResolvedComment{Author: johnVilk, Contents: "same", LikeCounter: []model.User{}})
	feed := &fakeFeed{item: &replaced}

	v := New(statusItem(), "4", feed)
	require.NoError(t, v.PostComment(context.Background(), "same"))
	assert.Equal(t, call{op: "comment", feedItemID: "item-1", userID: "4", text: "same"}, feed.calls[0])

	v.Apply(<-v.Updates())
	assert.Equal(t, replaced, v.State())
}

func TestRenderStatusUpdate(t *testing.T) {
	v := New(statusItem(someone, johnVilk), "4", &fakeFeed{})

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "Someone\n")
	assert.Contains(t, out, "Jan 25, 2016 09:30 · Austin, TX")
	assert.Contains(t, out, "  ate too much\n  at the buffet\n")
	assert.Contains(t, out, "[Unlike]")
	assert.Contains(t, out, "2 people like this")
	assert.Contains(t, out, "#0 Someone Else")
	assert.Contains(t, out, "hope you feel better")
	assert.Contains(t, out, "1 people like this")
}

func TestRenderUnknownVariant(t *testing.T) {
	item := statusItem()
	item.Type = "photo"
	item.Contents = &model.ResolvedUnknown{Type: "photo"}
	v := New(item, "4", &fakeFeed{})

	var buf bytes.Buffer
	err := v.Render(&buf)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Zero(t, buf.Len())
}

func TestViewAgainstAsyncFeed(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	users := repository.NewUserRepository(backend)
	feeds := repository.NewFeedRepository(backend)
	items := repository.NewFeedItemRepository(backend)
	for _, u := range []model.User{someone, other, johnVilk} {
		u := u
		require.NoError(t, users.Save(ctx, &u))
		require.NoError(t, feeds.Save(ctx, &model.Feed{ID: u.Feed, Contents: []string{}}))
	}

	svc := service.NewFeedService(users, feeds, items, cache.Nop{}, nil, service.Options{})
	async := service.NewAsyncFeed(svc, time.Millisecond, 8)
	stop := async.Start(1)
	defer func() { require.NoError(t, stop(ctx)) }()

	posted, err := svc.PostStatusUpdate(ctx, "1", "Amherst, MA", "hello")
	require.NoError(t, err)
	resolved, err := svc.GetFeedItem(ctx, posted.ID)
	require.NoError(t, err)

	v := New(*resolved, "4", async)
	require.NoError(t, v.ToggleLike(ctx))
	v.Apply(<-v.Updates())
	assert.True(t, v.DidUserLike())

	require.NoError(t, v.PostComment(ctx, "nice"))
	v.Apply(<-v.Updates())
	state := v.State()
	require.Len(t, state.Comments, 1)
	assert.Equal(t, "John Vilk", state.Comments[0].Author.FullName)
	assert.Equal(t, []model.User{johnVilk}, state.LikeCounter)

	require.NoError(t, v.ToggleLike(ctx))
	v.Apply(<-v.Updates())
	assert.False(t, v.DidUserLike())
}
