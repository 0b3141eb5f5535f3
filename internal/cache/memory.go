package cache

import (
	"context"
	"sync"
	"time"
)

// Memory implements Cache using in-process storage.
// This is NOT suitable for distributed deployments.
type Memory struct {
	mu      sync.RWMutex
	items   map[string]*memoryItem
	stopCh  chan struct{}
	stopped bool
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
	noExpiry  bool
}

func (i *memoryItem) isExpired() bool {
	if i.noExpiry {
		return false
	}
	return time.Now().After(i.expiresAt)
}

// NewMemory creates a new in-memory cache.
func NewMemory() *Memory {
	c := &Memory{
		items:  make(map[string]*memoryItem),
		stopCh: make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// cleanupLoop periodically removes expired items.
func (c *Memory) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Memory) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if item.isExpired() {
			delete(c.items, key)
		}
	}
}

// Get retrieves a value by key.
func (c *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || item.isExpired() {
		return nil, ErrCacheMiss
	}

	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

// Set stores a value with an optional TTL.
func (c *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = newMemoryItem(value, ttl)
	return nil
}

// SetNX sets a value only if the key doesn't exist.
func (c *Memory) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[key]; ok && !item.isExpired() {
		return false, nil
	}
	c.items[key] = newMemoryItem(value, ttl)
	return true, nil
}

// Delete removes values by key.
func (c *Memory) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

// Exists checks if a key exists.
func (c *Memory) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	return ok && !item.isExpired(), nil
}

// Close stops the cleanup loop.
func (c *Memory) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stopped {
		close(c.stopCh)
		c.stopped = true
	}
	return nil
}

func newMemoryItem(value []byte, ttl time.Duration) *memoryItem {
	stored := make([]byte, len(value))
	copy(stored, value)

	item := &memoryItem{value: stored}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	} else {
		item.noExpiry = true
	}
	return item
}

var _ Cache = (*Memory)(nil)
