package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type redisCache[V any] struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewRedis shares snapshots between API replicas. A Redis failure degrades
// to a direct load; it never fails the read.
func NewRedis[V any](rdb redis.Cmdable, ttl time.Duration, logger ...*zap.Logger) Cache[V] {
	l := zap.L().Named("cache.redis")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cache.redis")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache[V]{rdb: rdb, ttl: ttl, sf: &singleflight.Group{}, logger: l}
}

// redisEntry stamps a snapshot with the generation it was loaded under.
type redisEntry[V any] struct {
	Gen   uint64 `json:"gen"`
	Value V      `json:"value"`
}

func genKey(cacheKey string) string { return cacheKey + ":gen" }

// readGen parses the generation counter; a missing counter is generation 0.
func readGen(raw any) (uint64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected generation type %T", raw)
	}
}

// GetOrLoad serves an entry only if it was loaded under the current
// generation. Invalidate bumps the generation, so a load that overlapped a
// write can be stored but is never served.
func (c *redisCache[V]) GetOrLoad(ctx context.Context, key Key, load Loader[V]) (V, error) {
	cacheKey := key.String()

	gen, genOK := uint64(0), false
	vals, err := c.rdb.MGet(ctx, cacheKey, genKey(cacheKey)).Result()
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", cacheKey), zap.Error(err))
	} else if len(vals) == 2 {
		if gen, err = readGen(vals[1]); err != nil {
			c.logger.Warn("discarding undecodable generation", zap.String("key", cacheKey), zap.Error(err))
		} else {
			genOK = true
			if raw, ok := vals[0].(string); ok {
				var e redisEntry[V]
				switch err := json.Unmarshal([]byte(raw), &e); {
				case err != nil:
					c.logger.Warn("discarding undecodable cache entry", zap.String("key", cacheKey))
				case e.Gen == gen:
					return e.Value, nil
				default:
					c.logger.Debug("discarding stale cache entry",
						zap.String("key", cacheKey), zap.Uint64("entry_gen", e.Gen), zap.Uint64("gen", gen))
				}
			}
		}
	}

	v, err, _ := c.sf.Do(cacheKey, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		// without a known generation the entry could not be validated later
		if !genOK {
			return v, nil
		}
		if data, err := json.Marshal(redisEntry[V]{Gen: gen, Value: v}); err == nil {
			if err := c.rdb.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
				c.logger.Warn("cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (c *redisCache[V]) Invalidate(ctx context.Context, key Key) error {
	cacheKey := key.String()
	c.sf.Forget(cacheKey)
	if err := c.rdb.Incr(ctx, genKey(cacheKey)).Err(); err != nil {
		c.logger.Error("failed to bump cache generation", zap.String("key", cacheKey), zap.Error(err))
		return err
	}
	if err := c.rdb.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("failed to invalidate cache", zap.String("key", cacheKey), zap.Error(err))
		return err
	}
	return nil
}
