package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedmock/internal/cache"
	"github.com/d60-Lab/feedmock/internal/events"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/internal/store"
)

var fixedNow = time.Date(2016, 1, 25, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	backend *store.Counting
	users   repository.UserRepository
	feeds   repository.FeedRepository
	items   repository.FeedItemRepository
	pub     *recordingPublisher
	svc     FeedService
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	return newFixtureWithCache(t, opts, cache.Nop{})
}

func newFixtureWithCache(t *testing.T, opts Options, userCache cache.UserCache) *fixture {
	t.Helper()
	backend := store.NewCounting(store.NewMemoryBackend())
	f := &fixture{
		backend: backend,
		users:   repository.NewUserRepository(backend),
		feeds:   repository.NewFeedRepository(backend),
		items:   repository.NewFeedItemRepository(backend),
		pub:     &recordingPublisher{},
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	f.svc = NewFeedService(f.users, f.feeds, f.items, userCache, f.pub, opts)

	ctx := context.Background()
	for _, u := range []model.User{
		{ID: "1", FullName: "Someone", Feed: "1"},
		{ID: "2", FullName: "Someone Else", Feed: "2"},
		{ID: "3", FullName: "Another Person", Feed: "3"},
		{ID: "4", FullName: "John Vilk", Feed: "feed1", PasswordHash: "secret-hash"},
	} {
		u := u
		require.NoError(t, f.users.Save(ctx, &u))
		require.NoError(t, f.feeds.Save(ctx, &model.Feed{ID: u.Feed, Contents: []string{}}))
	}
	backend.Reset()
	return f
}

// seedItem stores a status update by author with the given likes and comments
// and puts it at the front of user 4's feed.
func (f *fixture) seedItem(t *testing.T, author string, likes []string, comments ...model.Comment) *model.FeedItem {
	t.Helper()
	ctx := context.Background()
	item := model.NewStatusUpdate(author, "Austin, TX", "ugh.", 1453668480000)
	item.LikeCounter = append(item.LikeCounter, likes...)
	item.Comments = append(item.Comments, comments...)
	item, err := f.items.Create(ctx, item)
	require.NoError(t, err)

	feed, err := f.feeds.Get(ctx, "feed1")
	require.NoError(t, err)
	feed.Prepend(item.ID)
	require.NoError(t, f.feeds.Save(ctx, feed))
	f.backend.Reset()
	return item
}

func ids(users []model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
