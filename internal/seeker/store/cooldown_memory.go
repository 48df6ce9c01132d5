package store

import (
	"context"
	"sync"
	"time"
)

type cooldownEntry struct {
	at      time.Time
	expires time.Time
}

// InMemoryCooldown records acceptance times per key for a single process.
type InMemoryCooldown struct {
	mu      sync.Mutex
	entries map[string]cooldownEntry
}

func NewInMemoryCooldown() *InMemoryCooldown {
	return &InMemoryCooldown{entries: make(map[string]cooldownEntry)}
}

// Acquire claims every key for ttl starting at at. If any key is still held it
// returns the latest holder's time and claims nothing. Expired entries are
// dropped on the way.
func (c *InMemoryCooldown) Acquire(_ context.Context, keys []string, at time.Time, ttl time.Duration) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		latest time.Time
		held   bool
	)
	for _, key := range keys {
		e, ok := c.entries[key]
		if !ok {
			continue
		}
		if !at.Before(e.expires) {
			delete(c.entries, key)
			continue
		}
		if !held || e.at.After(latest) {
			latest, held = e.at, true
		}
	}
	if held {
		return latest, false, nil
	}
	for _, key := range keys {
		c.entries[key] = cooldownEntry{at: at, expires: at.Add(ttl)}
	}
	return at, true, nil
}

// Release drops keys still holding the claim made at at.
func (c *InMemoryCooldown) Release(_ context.Context, keys []string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok && e.at.Equal(at) {
			delete(c.entries, key)
		}
	}
	return nil
}
