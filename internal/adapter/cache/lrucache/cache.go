// Package lrucache keeps recently computed leaderboards in a size-bounded LRU
// whose entries also expire after a fixed TTL.
package lrucache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"printbank/internal/app/ports"
)

const DefaultSize = 16

type cachedEntries struct {
	entries  []ports.LeaderboardEntry
	storedAt time.Time
}

type Cache struct {
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time
}

func New(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("new lru cache: %w", err)
	}
	return &Cache{lru: c, ttl: ttl, now: time.Now}, nil
}

func (c *Cache) Get(key string) ([]ports.LeaderboardEntry, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	cached, ok := v.(cachedEntries)
	if !ok {
		c.lru.Remove(key)
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(cached.storedAt) >= c.ttl {
		c.lru.Remove(key)
		return nil, false
	}
	return cached.entries, true
}

func (c *Cache) Set(key string, entries []ports.LeaderboardEntry) {
	c.lru.Add(key, cachedEntries{entries: entries, storedAt: c.now()})
}

func (c *Cache) Purge() {
	c.lru.Purge()
}
