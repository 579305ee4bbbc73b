package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/pkg/logger"
)

type callbackJob struct {
	fn    func()
	due   time.Time
	enqAt time.Time
}

// AsyncFeed exposes FeedService with completion callbacks. The store work runs
// on the caller's goroutine: a failure is returned and no callback fires. On
// success the callback is queued and invoked exactly once, no earlier than the
// configured latency, by one of the delivery workers.
type AsyncFeed struct {
	svc     FeedService
	latency time.Duration

	mu       sync.RWMutex
	closed   bool
	ch       chan callbackJob
	workers  sync.WaitGroup
	overflow sync.WaitGroup

	metricsCh chan time.Duration
}

func NewAsyncFeed(svc FeedService, latency time.Duration, queueSize int) *AsyncFeed {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if latency < 0 {
		latency = 0
	}
	return &AsyncFeed{
		svc:       svc,
		latency:   latency,
		ch:        make(chan callbackJob, queueSize),
		metricsCh: make(chan time.Duration, 65536),
	}
}

// Start 启动若干投递 worker；返回的停止函数会等待已排队的回调全部执行完
func (a *AsyncFeed) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		a.workers.Add(1)
		go func() {
			defer a.workers.Done()
			for job := range a.ch {
				a.run(job)
			}
		}()
	}
	return func(ctx context.Context) error {
		a.mu.Lock()
		if !a.closed {
			a.closed = true
			close(a.ch)
		}
		a.mu.Unlock()

		done := make(chan struct{})
		go func() {
			a.workers.Wait()
			a.overflow.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *AsyncFeed) enqueue(fn func()) {
	now := time.Now()
	job := callbackJob{fn: fn, due: now.Add(a.latency), enqAt: now}

	a.mu.RLock()
	if !a.closed {
		select {
		case a.ch <- job:
			a.mu.RUnlock()
			return
		default:
		}
		logger.Warn("callback queue full, delivering on a new goroutine", zap.Int("queue", cap(a.ch)))
		a.overflow.Add(1)
		a.mu.RUnlock()
		go func() {
			defer a.overflow.Done()
			a.run(job)
		}()
		return
	}
	a.mu.RUnlock()
	go a.run(job)
}

func (a *AsyncFeed) run(job callbackJob) {
	if d := time.Until(job.due); d > 0 {
		time.Sleep(d)
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("feed callback panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	job.fn()
	select {
	case a.metricsCh <- time.Since(job.enqAt):
	default:
	}
}

// Metrics 返回回调从入队到执行完成的耗时
func (a *AsyncFeed) Metrics() <-chan time.Duration { return a.metricsCh }

// QueueLen 返回当前排队的回调数（采样值）
func (a *AsyncFeed) QueueLen() int { return len(a.ch) }

func deliver[T any](a *AsyncFeed, v T, err error, cb func(T)) error {
	if err != nil {
		return err
	}
	if cb != nil {
		a.enqueue(func() { cb(v) })
	}
	return nil
}

func (a *AsyncFeed) GetFeedData(ctx context.Context, userID string, cb func(*model.ResolvedFeed)) error {
	feed, err := a.svc.GetFeedData(ctx, userID)
	return deliver(a, feed, err, cb)
}

func (a *AsyncFeed) GetFeedItem(ctx context.Context, feedItemID string, cb func(*model.ResolvedFeedItem)) error {
	item, err := a.svc.GetFeedItem(ctx, feedItemID)
	return deliver(a, item, err, cb)
}

func (a *AsyncFeed) PostStatusUpdate(ctx context.Context, userID, location, contents string, cb func(*model.FeedItem)) error {
	item, err := a.svc.PostStatusUpdate(ctx, userID, location, contents)
	return deliver(a, item, err, cb)
}

func (a *AsyncFeed) PostComment(ctx context.Context, feedItemID, authorID, contents string, cb func(*model.ResolvedFeedItem)) error {
	item, err := a.svc.PostComment(ctx, feedItemID, authorID, contents)
	return deliver(a, item, err, cb)
}

func (a *AsyncFeed) LikeFeedItem(ctx context.Context, feedItemID, userID string, cb func([]model.User)) error {
	users, err := a.svc.LikeFeedItem(ctx, feedItemID, userID)
	return deliver(a, users, err, cb)
}

func (a *AsyncFeed) UnlikeFeedItem(ctx context.Context, feedItemID, userID string, cb func([]model.User)) error {
	users, err := a.svc.UnlikeFeedItem(ctx, feedItemID, userID)
	return deliver(a, users, err, cb)
}

func (a *AsyncFeed) LikeComment(ctx context.Context, feedItemID string, commentIdx int, userID string, cb func([]model.User)) error {
	users, err := a.svc.LikeComment(ctx, feedItemID, commentIdx, userID)
	return deliver(a, users, err, cb)
}

func (a *AsyncFeed) UnlikeComment(ctx context.Context, feedItemID string, commentIdx int, userID string, cb func([]model.User)) error {
	users, err := a.svc.UnlikeComment(ctx, feedItemID, commentIdx, userID)
	return deliver(a, users, err, cb)
}
