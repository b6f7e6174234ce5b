package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader wraps a Cache with request coalescing: concurrent misses on the same
// key run the compute function once and share its result.
type Loader struct {
	cache Cache
	group singleflight.Group
}

// NewLoader creates a Loader over the given cache.
func NewLoader(c Cache) *Loader {
	return &Loader{cache: c}
}

// GetOrCompute returns the cached value for key, or computes, stores, and
// returns it. The second return reports whether the value came from cache.
func (l *Loader) GetOrCompute(
	ctx context.Context, key string, ttl time.Duration, tags []string,
	compute func(ctx context.Context) ([]byte, error),
) ([]byte, bool, error) {
	if v, ok := l.cache.Get(ctx, key); ok {
		return v, true, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Double-check under the flight: a concurrent caller may have
		// stored the value between our miss and this call.
		if v, ok := l.cache.Get(ctx, key); ok {
			return v, nil
		}
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		l.cache.Set(ctx, key, v, ttl, tags)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Invalidate forgets any in-flight computation for key and deletes it from
// the cache.
func (l *Loader) Invalidate(ctx context.Context, key string) {
	l.group.Forget(key)
	l.cache.Delete(ctx, key)
}
