package tablestore

import (
	"context"

	"go-kintai/internal/cache"

	"go.uber.org/zap"
)

// CachedStore serves reads from a TTL cache and drops a table's snapshot
// after every mutation attempt on it, so the next read in this process
// sees the write. Other processes see it once their TTL lapses or a change
// notification reaches their Invalidate.
type CachedStore struct {
	inner  TableStore
	cache  cache.Cache[[]Record]
	logger *zap.Logger
}

func NewCached(inner TableStore, c cache.Cache[[]Record], logger ...*zap.Logger) *CachedStore {
	l := zap.L().Named("tablestore.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tablestore.cache")
	}
	return &CachedStore{inner: inner, cache: c, logger: l}
}

func (s *CachedStore) key(table Table) cache.Key {
	return cache.Key{Store: s.inner.ID(), Table: string(table)}
}

func (s *CachedStore) invalidate(ctx context.Context, table Table) {
	if err := s.cache.Invalidate(ctx, s.key(table)); err != nil {
		s.logger.Error("cache invalidation failed", zap.String("table", string(table)), zap.Error(err))
	}
}

// Invalidate drops the cached snapshot of table.
func (s *CachedStore) Invalidate(ctx context.Context, table Table) error {
	return s.cache.Invalidate(ctx, s.key(table))
}

func (s *CachedStore) ID() string { return s.inner.ID() }

func (s *CachedStore) ReadAll(ctx context.Context, table Table) ([]Record, error) {
	recs, err := s.cache.GetOrLoad(ctx, s.key(table), func(ctx context.Context) ([]Record, error) {
		return s.inner.ReadAll(ctx, table)
	})
	if err != nil {
		return nil, err
	}
	// callers own what they get back; the snapshot stays untouched
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *CachedStore) Append(ctx context.Context, table Table, rec Record) error {
	defer s.invalidate(ctx, table)
	return s.inner.Append(ctx, table, rec)
}

func (s *CachedStore) AppendAll(ctx context.Context, table Table, recs []Record) (int, error) {
	defer s.invalidate(ctx, table)
	return s.inner.AppendAll(ctx, table, recs)
}

func (s *CachedStore) DeleteByKey(ctx context.Context, table Table, keyColumn, keyValue string) (int, error) {
	defer s.invalidate(ctx, table)
	return s.inner.DeleteByKey(ctx, table, keyColumn, keyValue)
}

func (s *CachedStore) Replace(ctx context.Context, table Table, keyColumn, keyValue string, recs ...Record) error {
	defer s.invalidate(ctx, table)
	return s.inner.Replace(ctx, table, keyColumn, keyValue, recs...)
}

func (s *CachedStore) Purge(ctx context.Context, table Table) error {
	defer s.invalidate(ctx, table)
	return s.inner.Purge(ctx, table)
}
