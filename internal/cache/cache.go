package cache

import (
	"context"
	"fmt"
	"time"
)

const DefaultTTL = 60 * time.Second

// Key identifies one cached table snapshot.
type Key struct {
	Store string
	Table string
}

func (k Key) String() string {
	return fmt.Sprintf("kintai:table:%s:%s", k.Store, k.Table)
}

type Loader[V any] func(ctx context.Context) (V, error)

type Cache[V any] interface {
	// GetOrLoad returns the cached value for key or calls load on a miss
	// and caches its result for the TTL. Load errors are not cached.
	GetOrLoad(ctx context.Context, key Key, load Loader[V]) (V, error)
	Invalidate(ctx context.Context, key Key) error
}
