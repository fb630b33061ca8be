package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-kintai/internal/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row = map[string]string

var genKey = key.String() + ":gen"

func entryJSON(t *testing.T, gen uint64, v []row) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{"gen": gen, "value": v})
	require.NoError(t, err)
	return data
}

func TestRedisCache_MissLoadsAndStores(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.NewRedis[[]row](rdb, time.Minute)

	want := []row{{"event_id": "e1", "staff_name": "A"}}

	mock.ExpectMGet(key.String(), genKey).SetVal([]interface{}{nil, nil})
	mock.ExpectSet(key.String(), entryJSON(t, 0, want), time.Minute).SetVal("OK")

	got, err := c.GetOrLoad(context.Background(), key, func(ctx context.Context) ([]row, error) {
		return want, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_HitSkipsLoader(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.NewRedis[[]row](rdb, time.Minute)

	mock.ExpectMGet(key.String(), genKey).SetVal([]interface{}{`{"gen":2,"value":[{"event_id":"e1"}]}`, "2"})

	got, err := c.GetOrLoad(context.Background(), key, func(ctx context.Context) ([]row, error) {
		t.Fatal("loader must not be called on a hit")
		return nil, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []row{{"event_id": "e1"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_RedisDownFallsBackToLoader(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.NewRedis[[]row](rdb, time.Minute)

	want := []row{{"event_id": "e2"}}
	mock.ExpectMGet(key.String(), genKey).SetErr(errors.New("connection refused"))

	got, err := c.GetOrLoad(context.Background(), key, func(ctx context.Context) ([]row, error) {
		return want, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	// no generation known, so nothing is written back
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Invalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.NewRedis[[]row](rdb, time.Minute)

	mock.ExpectIncr(genKey).SetVal(1)
	mock.ExpectDel(key.String()).SetVal(1)

	assert.NoError(t, c.Invalidate(context.Background(), key))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_InvalidateDuringLoadIsNotServed(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.NewRedis[[]row](rdb, time.Minute)
	ctx := context.Background()

	old := []row{{"event_id": "old"}}
	fresh := []row{{"event_id": "old"}, {"event_id": "new-row"}}

	// first read: a write lands between the table read and the SET
	mock.ExpectMGet(key.String(), genKey).SetVal([]interface{}{nil, nil})
	mock.ExpectIncr(genKey).SetVal(1)
	mock.ExpectDel(key.String()).SetVal(0)
	mock.ExpectSet(key.String(), entryJSON(t, 0, old), time.Minute).SetVal("OK")

	got, err := c.GetOrLoad(ctx, key, func(ctx context.Context) ([]row, error) {
		require.NoError(t, c.Invalidate(ctx, key))
		return old, nil
	})
	require.NoError(t, err)
	assert.Equal(t, old, got)

	// next read sees the stale stamp and reloads
	mock.ExpectMGet(key.String(), genKey).SetVal([]interface{}{string(entryJSON(t, 0, old)), "1"})
	mock.ExpectSet(key.String(), entryJSON(t, 1, fresh), time.Minute).SetVal("OK")

	got, err = c.GetOrLoad(ctx, key, func(ctx context.Context) ([]row, error) {
		return fresh, nil
	})
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_UndecodableEntryReloads(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.NewRedis[[]row](rdb, time.Minute)

	want := []row{{"event_id": "e3"}}
	mock.ExpectMGet(key.String(), genKey).SetVal([]interface{}{"not-json", "4"})
	mock.ExpectSet(key.String(), entryJSON(t, 4, want), time.Minute).SetVal("OK")

	got, err := c.GetOrLoad(context.Background(), key, func(ctx context.Context) ([]row, error) {
		return want, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
