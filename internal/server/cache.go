package server

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

// Cache holds the last upstream response for ttl. Readers get their own copy
// of the record slice. Concurrent misses share one upstream fetch.
type Cache struct {
	fetcher Fetcher
	name    string
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group

	mu        sync.RWMutex
	events    []harvester.RawEvent
	fetchedAt time.Time
}

func NewCache(fetcher Fetcher, name string, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{fetcher: fetcher, name: name, ttl: ttl, now: now}
}

func (c *Cache) Events(ctx context.Context) ([]harvester.RawEvent, time.Time, error) {
	if events, fetchedAt, ok := c.fresh(); ok {
		return events, fetchedAt, nil
	}

	_, err, _ := c.group.Do(c.name, func() (any, error) {
		if _, _, ok := c.fresh(); ok {
			return nil, nil
		}
		return nil, c.Refresh(ctx)
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked(), c.fetchedAt, nil
}

// Refresh fetches unconditionally. A failed fetch keeps the previous records
// but does not extend their lifetime.
func (c *Cache) Refresh(ctx context.Context) error {
	events, err := c.fetcher.FetchRaw(ctx, c.name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
	c.fetchedAt = c.now()
	return nil
}

func (c *Cache) fresh() ([]harvester.RawEvent, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || c.ttl <= 0 || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, time.Time{}, false
	}
	return c.copyLocked(), c.fetchedAt, true
}

func (c *Cache) copyLocked() []harvester.RawEvent {
	events := make([]harvester.RawEvent, len(c.events))
	copy(events, c.events)
	return events
}
