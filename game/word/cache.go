package word

import (
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// wildcardCacheSize bounds the number of remembered wildcard queries.
const wildcardCacheSize = 4096

// wildcardCache memoizes wildcard query results.  simplelru is not safe for
// concurrent use, so every access holds the mutex, including the scan on a
// miss.
type wildcardCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU
}

func newWildcardCache(size int) *wildcardCache {
	// NewLRU only fails for a non-positive size.
	lru, err := simplelru.NewLRU(size, nil)
	if err != nil {
		panic(err)
	}
	return &wildcardCache{lru: lru}
}

// lookup returns the cached result for the query, computing and storing it
// with fetch on a miss.
func (c *wildcardCache) lookup(query string, fetch func(string) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lru.Get(query); ok {
		return v.(bool)
	}
	v := fetch(query)
	c.lru.Add(query, v)
	return v
}
