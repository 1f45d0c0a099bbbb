package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/miniapp-server/internal/model"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

var _ model.Cache = (*Memory)(nil)

// Memory is an in-process Cache used when no Redis address is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, model.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, model.ErrCacheMiss
	}

	return append([]byte(nil), e.value...), nil
}

func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e

	return nil
}

func (c *Memory) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}
