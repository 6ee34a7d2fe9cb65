package draft

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cache remembers finished drafts by prompt fingerprint and collapses
// concurrent identical requests into one upstream call.
type Cache struct {
	entries *lru.Cache[string, string]
	group   singleflight.Group
}

// NewCache returns a cache holding up to size drafts.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Do returns the cached value for key or runs fn once for all concurrent
// callers. Only successful results are stored. hit reports whether the
// value came from the cache or another caller's flight.
//
// The shared call does not inherit cancellation from the caller that
// started it; each caller stops waiting when its own ctx is done.
func (c *Cache) Do(ctx context.Context, key string, fn func(context.Context) (string, error)) (value string, hit bool, err error) {
	if v, ok := c.entries.Get(key); ok {
		return v, true, nil
	}
	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		out, err := fn(flight)
		if err != nil {
			return "", err
		}
		c.entries.Add(key, out)
		return out, nil
	})
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", false, res.Err
		}
		return res.Val.(string), res.Shared, nil
	}
}

// Len reports the number of cached drafts.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge empties the cache.
func (c *Cache) Purge() { c.entries.Purge() }
