package cache

import (
	"context"
	"log"
)

// Reader wraps list queries with the cache-aside pattern: serve fresh cached
// entries, fall back to the store on a miss and repopulate. The cache is an
// optimization only; when Redis is unreachable every read degrades to a
// direct store fetch.
type Reader struct {
	cache *Cache
}

// NewReader creates a cache-aside reader over the given cache.
func NewReader(c *Cache) *Reader {
	return &Reader{cache: c}
}

// Read looks up key in the cache. On a hit the cached payload is decoded into
// dest and fetch is not invoked. On a miss (or cache backend failure) fetch
// must populate dest, after which the result is stored with the default TTL.
func (r *Reader) Read(ctx context.Context, key string, dest any, fetch func(ctx context.Context) error) error {
	found, err := r.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("[cache] read %q degraded to store fetch: %v", key, err)
	} else if found {
		return nil
	}

	if err := fetch(ctx); err != nil {
		return err
	}

	if err := r.cache.Set(ctx, key, dest); err != nil {
		log.Printf("[cache] failed to populate %q: %v", key, err)
	}
	return nil
}

// Invalidate removes a single cached entry. Invalidation is best-effort:
// failures are logged and never surfaced to the caller.
func (r *Reader) Invalidate(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		log.Printf("[cache] failed to invalidate %q: %v", key, err)
	}
}

// InvalidatePrefix removes all cached entries under a key prefix.
func (r *Reader) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := r.cache.DeletePattern(ctx, prefix+"*"); err != nil {
		log.Printf("[cache] failed to invalidate prefix %q: %v", prefix, err)
	}
}
