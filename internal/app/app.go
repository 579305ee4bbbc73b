// Package app wires configuration into the document store, caches, event
// publisher and feed services shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/feedmock/config"
	"github.com/d60-Lab/feedmock/internal/cache"
	"github.com/d60-Lab/feedmock/internal/events"
	"github.com/d60-Lab/feedmock/internal/repository"
	"github.com/d60-Lab/feedmock/internal/seed"
	"github.com/d60-Lab/feedmock/internal/service"
	"github.com/d60-Lab/feedmock/internal/store"
	"github.com/d60-Lab/feedmock/pkg/database"
	"github.com/d60-Lab/feedmock/pkg/logger"
)

// App 组装后的依赖
type App struct {
	Config  *config.Config
	Backend *store.Counting
	Users   repository.UserRepository
	Feeds   repository.FeedRepository
	Items   repository.FeedItemRepository
	Service service.FeedService
	Async   *service.AsyncFeed

	redis   redis.UniversalClient
	closers []func(context.Context) error
}

// New builds every dependency from cfg and, if feed.seed is set, loads the
// demo data. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	if err := a.init(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	backend, err := a.openBackend()
	if err != nil {
		return err
	}
	a.Backend = store.NewCounting(backend)
	a.Users = repository.NewUserRepository(a.Backend)
	a.Feeds = repository.NewFeedRepository(a.Backend)
	a.Items = repository.NewFeedItemRepository(a.Backend)

	userCache, err := a.openCache()
	if err != nil {
		return err
	}
	publisher, err := a.openPublisher()
	if err != nil {
		return err
	}

	a.Service = service.NewFeedService(a.Users, a.Feeds, a.Items, userCache, publisher, service.Options{
		AllowDuplicateLikes: a.Config.Feed.AllowDuplicateLikes,
	})
	a.Async = service.NewAsyncFeed(a.Service, a.Config.Feed.CallbackLatency, a.Config.Feed.CallbackQueue)
	stop := a.Async.Start(a.Config.Feed.CallbackWorkers)
	a.closers = append(a.closers, stop)

	if a.Config.Feed.Seed {
		if err := seed.Load(ctx, seed.Repos{Users: a.Users, Feeds: a.Feeds, Items: a.Items}, seed.DefaultPassword); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

func (a *App) openBackend() (store.Backend, error) {
	cfg := a.Config
	switch cfg.Store.Driver {
	case "gorm":
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		return store.NewGormBackend(db)
	case "redis", "miniredis":
		client, err := a.redisClient()
		if err != nil {
			return nil, err
		}
		return store.NewRedisBackend(client, cfg.Store.RedisPrefix), nil
	default:
		return store.NewMemoryBackend(), nil
	}
}

// redisClient 懒加载共享的 redis 客户端；miniredis 驱动下启动进程内实例
func (a *App) redisClient() (redis.UniversalClient, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	addr := a.Config.Redis.Addr
	if a.Config.Store.Driver == "miniredis" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start miniredis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { mr.Close(); return nil })
		addr = mr.Addr()
		logger.Info("using in-process miniredis", zap.String("addr", addr))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.redis = client
	return client, nil
}

func (a *App) openCache() (cache.UserCache, error) {
	switch a.Config.Cache.Driver {
	case "local":
		return cache.NewLocalUserCache(a.Config.Cache.TTL)
	case "redis":
		client, err := a.redisClient()
		if err != nil {
			return nil, err
		}
		return cache.NewRedisUserCache(client, a.Config.Cache.TTL), nil
	default:
		return cache.Nop{}, nil
	}
}

func (a *App) openPublisher() (events.Publisher, error) {
	if a.Config.Nats.URL == "" {
		return events.Nop{}, nil
	}
	nc, err := nats.Connect(a.Config.Nats.URL, nats.Name("feedmock"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return nc.Drain() })
	logger.Info("publishing feed events to nats", zap.String("url", a.Config.Nats.URL))
	return events.NewNatsPublisher(nc, a.Config.Nats.SubjectPrefix), nil
}

// Close 逆序释放资源
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
