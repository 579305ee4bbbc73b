package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/feedmock/config"
	"github.com/d60-Lab/feedmock/internal/cache"
	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/internal/service"
	"github.com/d60-Lab/feedmock/internal/store"
	"github.com/d60-Lab/feedmock/pkg/database"
)

type scenarioResult struct {
	durations  []time.Duration
	storeReads int64
	cacheKeys  int64
}

// cachebench measures feed reads with each user cache. Every feed item
// references a random sample of a shared user pool, so resolution dominates.
func main() {
	ctx := context.Background()
	cfg := must(config.Load())

	USERS := envInt("USERS", 5000) // user pool
	ITEMS := envInt("ITEMS", 50)   // items in the reader's feed
	LIKES := envInt("LIKES", 100)  // likers per item
	READS := envInt("READS", 500)  // GetFeedData calls per scenario

	db := must(database.InitDB(cfg))
	backend := store.NewCounting(must(store.NewGormBackend(db)))
	users := repository.NewUserRepository(backend)
	feeds := repository.NewFeedRepository(backend)
	items := repository.NewFeedItemRepository(backend)

	fmt.Println("Setting up test data...")
	pool := make([]string, USERS)
	for i := range pool {
		id := uuid.NewString()
		u := model.User{ID: id, FullName: fmt.Sprintf("user %d", i), Feed: id}
		mustDo(users.Save(ctx, &u))
		pool[i] = id
	}
	reader := model.User{ID: "reader-" + uuid.NewString()[:8], FullName: "Reader", Feed: uuid.NewString()}
	mustDo(users.Save(ctx, &reader))

	rnd := rand.New(rand.NewSource(42))
	feed := &model.Feed{ID: reader.Feed, Contents: []string{}}
	for i := 0; i < ITEMS; i++ {
		item := model.NewStatusUpdate(pool[rnd.Intn(USERS)], "bench", fmt.Sprintf("post %d", i), time.Now().UnixMilli())
		for j := 0; j < LIKES; j++ {
			item.LikeCounter.Add(pool[rnd.Intn(USERS)], false)
		}
		item = must(items.Create(ctx, item))
		feed.Prepend(item.ID)
	}
	mustDo(feeds.Save(ctx, feed))
	fmt.Printf("Test data ready: %d users, %d items x %d likers\n", USERS, ITEMS, LIKES)

	// Use real Redis when REDIS_ADDR is set, miniredis otherwise
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		mr := must(miniredis.Run())
		defer mr.Close()
		redisAddr = mr.Addr()
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	local := must(cache.NewLocalUserCache(10 * time.Minute))
	scenarios := []struct {
		name  string
		cache cache.UserCache
	}{
		{"No cache", cache.Nop{}},
		{"Local ristretto", local},
		{"Redis", cache.NewRedisUserCache(client, 10*time.Minute)},
	}

	fmt.Printf("\nFeed read latency (%d reads, %d items, %d likers each, store=%s)\n", READS, ITEMS, LIKES, cfg.Database.Driver)
	for _, sc := range scenarios {
		svc := service.NewFeedService(users, feeds, items, sc.cache, nil, service.Options{})
		res := runScenario(ctx, svc, backend, client, reader.ID, READS)
		fmt.Printf("%-16s avg=%v p95=%v p99=%v store_reads=%d cache_keys=%d\n",
			sc.name, avg(res.durations), pct(res.durations, 0.95), pct(res.durations, 0.99), res.storeReads, res.cacheKeys)
	}
}

func runScenario(ctx context.Context, svc service.FeedService, backend *store.Counting, client *redis.Client, userID string, reads int) scenarioResult {
	client.FlushAll(ctx)

	fmt.Print("  Warming cache...")
	if _, err := svc.GetFeedData(ctx, userID); err != nil {
		panic(err)
	}
	fmt.Println(" done")
	// ristretto applies sets asynchronously
	time.Sleep(50 * time.Millisecond)
	backend.Reset()

	out := make([]time.Duration, 0, reads)
	for i := 0; i < reads; i++ {
		start := time.Now()
		if _, err := svc.GetFeedData(ctx, userID); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}

	keys, _ := client.DBSize(ctx).Result()
	return scenarioResult{durations: out, storeReads: backend.Reads(), cacheKeys: keys}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, e := strconv.Atoi(s); e == nil && v > 0 {
			return v
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
