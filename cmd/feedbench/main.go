package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/feedmock/config"
	"github.com/d60-Lab/feedmock/internal/app"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/seed"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, e := strconv.Atoi(s); e == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	cfg.Feed.Seed = true

	// params
	N := envInt("N", 2000)        // distinct users liking the same item
	CONC := envInt("CONC", 64)    // concurrent callers
	READS := envInt("READS", 200) // GetFeedData samples after the likes
	cfg.Feed.CallbackWorkers = envInt("WORKERS", cfg.Feed.CallbackWorkers)

	ctx := context.Background()
	a := must(app.New(ctx, cfg))
	defer a.Close(ctx)

	// seed likers
	users := make([]string, N)
	for i := range users {
		id := uuid.New().String()
		u := model.User{ID: id, FullName: "bench " + id[:8], Feed: id}
		if err := a.Users.Save(ctx, &u); err != nil {
			panic(err)
		}
		users[i] = id
	}
	before := len(must(a.Items.Get(ctx, seed.StatusUpdateID)).LikeCounter)

	// concurrent likes through the async facade
	callDurations := make([]time.Duration, N)
	var delivered sync.WaitGroup
	delivered.Add(N)
	sem := make(chan struct{}, CONC)
	var wg sync.WaitGroup
	st := time.Now()
	for i, id := range users {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			t0 := time.Now()
			err := a.Async.LikeFeedItem(ctx, seed.StatusUpdateID, id, func([]model.User) { delivered.Done() })
			callDurations[i] = time.Since(t0)
			if err != nil {
				panic(err)
			}
		}(i, id)
	}
	wg.Wait()
	delivered.Wait()
	total := time.Since(st)

	land := make([]time.Duration, 0, N)
	for len(land) < N {
		select {
		case d := <-a.Async.Metrics():
			land = append(land, d)
		default:
			goto PRINT
		}
	}

PRINT:
	item := must(a.Items.Get(ctx, seed.StatusUpdateID))
	got := len(item.LikeCounter) - before

	fmt.Printf("N=%d CONC=%d WORKERS=%d LATENCY=%v STORE=%s\n", N, CONC, cfg.Feed.CallbackWorkers, cfg.Feed.CallbackLatency, cfg.Store.Driver)
	fmt.Printf("Like call latency: total=%v avg=%v p95=%v p99=%v\n", total, avg(callDurations), pct(callDurations, 0.95), pct(callDurations, 0.99))
	fmt.Printf("Callback landing: samples=%d avg=%v p95=%v p99=%v\n", len(land), avg(land), pct(land, 0.95), pct(land, 0.99))
	fmt.Printf("Likes recorded: %d/%d lost=%d store writes=%d\n", got, N, N-got, a.Backend.Writes())

	reads := make([]time.Duration, 0, READS)
	for i := 0; i < READS; i++ {
		t0 := time.Now()
		if _, err := a.Service.GetFeedData(ctx, seed.CurrentUserID); err != nil {
			panic(err)
		}
		reads = append(reads, time.Since(t0))
	}
	fmt.Printf("Feed read (user %s, %d likers): avg=%v p95=%v p99=%v\n", seed.CurrentUserID, len(item.LikeCounter), avg(reads), pct(reads, 0.95), pct(reads, 0.99))

	if got != N {
		os.Exit(1)
	}
}
