package cache

import (
	"context"
	"sync"

	"StratScan/internal/domain/models"
)

// MemoryStateStore is the process-local StateStore. Entries are overwritten on
// refresh and never evicted; the key space is markets × timeframes.
type MemoryStateStore struct {
	mu sync.RWMutex
	m  map[string]models.CacheEntry
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{m: make(map[string]models.CacheEntry)}
}

func (c *MemoryStateStore) Load(_ context.Context, key string) (models.CacheEntry, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	return e, ok, nil
}

func (c *MemoryStateStore) Save(_ context.Context, key string, entry models.CacheEntry) error {
	c.mu.Lock()
	c.m[key] = entry
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries.
func (c *MemoryStateStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
