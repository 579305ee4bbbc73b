package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/store"
)

func TestAsyncCallbackFiresOnceAfterLatency(t *testing.T) {
	f := newFixture(t, Options{})
	item := f.seedItem(t, "1", nil)

	async := NewAsyncFeed(f.svc, 20*time.Millisecond, 8)
	stop := async.Start(2)

	var calls atomic.Int32
	got := make(chan []model.User, 1)
	start := time.Now()
	err := async.LikeFeedItem(context.Background(), item.ID, "4", func(users []model.User) {
		calls.Add(1)
		got <- users
	})
	require.NoError(t, err)

	select {
	case users := <-got:
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		assert.Equal(t, []string{"4"}, ids(users))
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}

	require.NoError(t, stop(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestAsyncErrorSkipsCallback(t *testing.T) {
	f := newFixture(t, Options{})
	async := NewAsyncFeed(f.svc, 0, 8)
	stop := async.Start(1)

	var calls atomic.Int32
	err := async.LikeComment(context.Background(), "missing", 0, "4", func([]model.User) { calls.Add(1) })
	assert.ErrorIs(t, err, store.ErrNotFound)

	item := f.seedItem(t, "1", nil)
	err = async.UnlikeComment(context.Background(), item.ID, 3, "4", func([]model.User) { calls.Add(1) })
	assert.ErrorIs(t, err, ErrCommentOutOfRange)

	require.NoError(t, stop(context.Background()))
	assert.Zero(t, calls.Load())
}

func TestAsyncStopDrainsQueue(t *testing.T) {
	f := newFixture(t, Options{})
	async := NewAsyncFeed(f.svc, 5*time.Millisecond, 64)
	stop := async.Start(1)

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, async.GetFeedData(context.Background(), "4", func(*model.ResolvedFeed) { calls.Add(1) }))
	}
	require.NoError(t, stop(context.Background()))
	assert.Equal(t, int32(10), calls.Load())

	// after stop callbacks are still delivered
	done := make(chan struct{})
	require.NoError(t, async.GetFeedData(context.Background(), "4", func(*model.ResolvedFeed) { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback after stop was dropped")
	}
}

func TestAsyncFullQueueStillDelivers(t *testing.T) {
	f := newFixture(t, Options{})
	// no workers started: the single slot fills and the rest overflow
	async := NewAsyncFeed(f.svc, 0, 1)

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, async.GetFeedData(context.Background(), "4", func(*model.ResolvedFeed) { calls.Add(1) }))
	}
	assert.Eventually(t, func() bool { return calls.Load() == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, async.QueueLen())

	stop := async.Start(1)
	require.NoError(t, stop(context.Background()))
	assert.Equal(t, int32(5), calls.Load())
}

func TestAsyncPostCallbacks(t *testing.T) {
	f := newFixture(t, Options{})
	async := NewAsyncFeed(f.svc, 0, 8)
	stop := async.Start(2)
	ctx := context.Background()

	posted := make(chan *model.FeedItem, 1)
	require.NoError(t, async.PostStatusUpdate(ctx, "4", "NYC", "hello\nworld", func(item *model.FeedItem) { posted <- item }))
	item := <-posted

	commented := make(chan *model.ResolvedFeedItem, 1)
	require.NoError(t, async.PostComment(ctx, item.ID, "2", "welcome", func(it *model.ResolvedFeedItem) { commented <- it }))
	resolved := <-commented
	require.Len(t, resolved.Comments, 1)
	assert.Equal(t, "Someone Else", resolved.Comments[0].Author.FullName)

	require.NoError(t, async.LikeFeedItem(ctx, item.ID, "4", nil), "a nil callback is allowed")
	unliked := make(chan []model.User, 1)
	require.NoError(t, async.UnlikeFeedItem(ctx, item.ID, "4", func(u []model.User) { unliked <- u }))
	assert.Empty(t, <-unliked)

	fetched := make(chan *model.ResolvedFeedItem, 1)
	require.NoError(t, async.GetFeedItem(ctx, item.ID, func(it *model.ResolvedFeedItem) { fetched <- it }))
	assert.Equal(t, item.ID, (<-fetched).ID)

	require.NoError(t, stop(context.Background()))
}

func TestAsyncRecoversFromCallbackPanic(t *testing.T) {
	f := newFixture(t, Options{})
	async := NewAsyncFeed(f.svc, 0, 8)
	stop := async.Start(1)

	require.NoError(t, async.GetFeedData(context.Background(), "4", func(*model.ResolvedFeed) { panic("boom") }))
	done := make(chan struct{})
	require.NoError(t, async.GetFeedData(context.Background(), "4", func(*model.ResolvedFeed) { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after a panicking callback")
	}
	require.NoError(t, stop(context.Background()))
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Equal(t, 2, k.size())
	unlockA()
	unlockB()
	assert.Zero(t, k.size())
}
