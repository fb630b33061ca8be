package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	lockTTL time.Duration
}

func NewRedis(rdb redis.Cmdable, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{rdb: rdb, ttl: ttl, lockTTL: DefaultLockTTL}
}

func entryKey(key string) string { return "kintai:idemp:" + key }

func lockKey(key string) string { return "kintai:idemp:" + key + ":lock" }

func (r *redisStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	val, err := r.rdb.Get(ctx, entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (r *redisStore) Save(ctx context.Context, key string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, entryKey(key), data, r.ttl).Err()
}

func (r *redisStore) Lock(ctx context.Context, key string) (bool, error) {
	return r.rdb.SetNX(ctx, lockKey(key), "locked", r.lockTTL).Result()
}

func (r *redisStore) Unlock(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, lockKey(key)).Err()
}
