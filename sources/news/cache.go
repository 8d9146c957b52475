package news

import (
	"sync"
	"time"

	"github.com/termdetox/terminal-detox/types"
)

// Cache holds the most recently merged headline list
type Cache struct {
	sync.Mutex
	loaded    bool
	fetchedAt time.Time
	items     []types.NewsItem
}

// Load replaces the cached headlines, marking the cache as ready.
//
// Note: uses the passed in slice directly;
// it cannot be modified by the caller afterwards
func (c *Cache) Load(items []types.NewsItem, fetchedAt time.Time) {
	c.Lock()
	defer c.Unlock()

	c.loaded = true
	c.fetchedAt = fetchedAt
	c.items = items
}

// GetAll gets a copy of all cached headlines
func (c *Cache) GetAll() ([]types.NewsItem, error) {
	c.Lock()
	defer c.Unlock()

	if !c.loaded {
		return nil, NewCacheNotInitializedError("list headlines from the RSS feeds")
	}

	items := make([]types.NewsItem, len(c.items))
	copy(items, c.items)
	return items, nil
}

// FetchedAt gets when the cache was last loaded (zero if never)
func (c *Cache) FetchedAt() time.Time {
	c.Lock()
	defer c.Unlock()

	return c.fetchedAt
}
