package cache

import (
	"context"
	"time"
)

// NopCache satisfies the cache contract without storing anything.
// Used when CACHE_ENABLED is false.
type NopCache struct{}

func (NopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (NopCache) Get(context.Context, string, interface{}) error { return ErrCacheMiss }

func (NopCache) Delete(context.Context, ...string) error { return nil }

func (NopCache) IncrementWithTTL(context.Context, string, time.Duration) (int64, error) {
	return 0, nil
}

func (NopCache) Ping(context.Context) error { return nil }

func (NopCache) Close() error { return nil }
