package scoring

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// CachedVectorizer memoizes another Vectorizer by input text. Returned
// vectors are shared between callers and must not be modified.
type CachedVectorizer struct {
	next  Vectorizer
	cache *ristretto.Cache
}

// NewCachedVectorizer wraps next with a cache holding about maxEntries
// vectors.
func NewCachedVectorizer(next Vectorizer, maxEntries int64) (*CachedVectorizer, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("vector cache size must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("vector cache: %w", err)
	}
	return &CachedVectorizer{next: next, cache: cache}, nil
}

func (c *CachedVectorizer) Dimensions() int { return c.next.Dimensions() }

// Vectorize returns the cached vector for text, computing it on a miss.
func (c *CachedVectorizer) Vectorize(text string) Vector {
	if v, ok := c.cache.Get(text); ok {
		return v.(Vector)
	}
	v := c.next.Vectorize(text)
	c.cache.Set(text, v, 1)
	return v
}

// Close stops the cache's background goroutines.
func (c *CachedVectorizer) Close() {
	c.cache.Close()
}
