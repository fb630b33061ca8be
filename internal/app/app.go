package app

import (
	"context"
	"errors"
	"fmt"

	"go-kintai/internal/cache"
	"go-kintai/internal/config"
	"go-kintai/internal/events"
	"go-kintai/internal/messaging/kafka/producer"
	"go-kintai/internal/shared/connection"
	"go-kintai/internal/shared/idempotency"
	"go-kintai/internal/tablestore"
	"go-kintai/internal/tablestore/memory"
	"go-kintai/internal/tablestore/postgres"
	"go-kintai/internal/timerules"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errKafkaRequired = errors.New("KAFKA_BROKER is required")

// App holds the infrastructure shared by the HTTP API and the CLI.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Rules       timerules.Rules
	Backend     tablestore.Backend
	Store       tablestore.TableStore
	Cached      *tablestore.CachedStore
	Idempotency idempotency.Store
	Publisher   events.Publisher
	Redis       *redis.Client

	closers []func() error
}

// Build connects the configured backend and optional Redis and Kafka.
// Without Redis the cache and the idempotency store live in process memory;
// without a broker change notifications are dropped.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	rules, err := cfg.TimeRules()
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Rules: rules}

	a.Backend, err = a.connectBackend(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.Redis, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = rdb
		a.closers = append(a.closers, rdb.Close)
	}

	var rowCache cache.Cache[[]tablestore.Record]
	if a.Redis != nil {
		rowCache = cache.NewRedis[[]tablestore.Record](a.Redis, cfg.Cache.TTL, logger)
		a.Idempotency = idempotency.NewRedis(a.Redis, idempotency.DefaultTTL)
	} else {
		rowCache = cache.NewMemory[[]tablestore.Record](cfg.Cache.TTL)
		a.Idempotency = idempotency.NewMemory(idempotency.DefaultTTL)
	}

	store := tablestore.New(a.Backend,
		tablestore.WithRetryPolicy(cfg.RetryPolicy()),
		tablestore.WithLogger(logger),
	)
	a.Cached = tablestore.NewCached(store, rowCache, logger)
	a.Store = a.Cached

	if cfg.Kafka.Broker != "" {
		writer := connection.NewKafkaWriter(cfg.Kafka)
		a.closers = append(a.closers, writer.Close)
		a.Publisher = producer.NewLedgerPublisher(writer, logger)
		logger.Info("change notifications enabled", zap.String("broker", cfg.Kafka.Broker))
	} else {
		a.Publisher = events.NewNoopPublisher()
	}

	logger.Info("table store ready",
		zap.String("backend", cfg.Store.Backend),
		zap.String("id", a.Store.ID()),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Bool("redis", a.Redis != nil),
	)
	return a, nil
}

func (a *App) connectBackend(ctx context.Context) (tablestore.Backend, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendSheets:
		b, err := connection.ConnectSheets(ctx, cfg.Store, a.Logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendPostgres:
		db, err := connection.ConnectGORMWithRetry(ctx, cfg.Database, a.Logger)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		return postgres.New(db, cfg.Store.Workbook, a.Logger), nil
	case config.BackendMemory:
		a.Logger.Warn("using in-memory table store; data is lost on exit")
		return memory.New(cfg.Store.Workbook), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// BuildApp wires infrastructure and registers every module on router.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	a, err := Build(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := registerModules(router, a); err != nil {
		_ = a.Close()
		return nil, err
	}

	// A Redis cache is shared, so only process-local snapshots need the feed.
	if cfg.Kafka.Broker != "" && a.Redis == nil {
		a.startCacheInvalidator()
	}
	return a, nil
}
