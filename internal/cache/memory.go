package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache with per-item expiry.
type Memory[V any] struct {
	c *gocache.Cache
}

// NewMemory creates a cache whose entries expire after ttl. A ttl of zero
// or less keeps entries until the process exits.
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	if ttl <= 0 {
		return &Memory[V]{c: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Memory[V]{c: gocache.New(ttl, 2*ttl)}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	v, found := m.c.Get(key)
	if !found {
		return zero, false
	}

	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (m *Memory[V]) Put(_ context.Context, key string, v V) {
	m.c.Set(key, v, gocache.DefaultExpiration)
}

// Len reports the number of unexpired entries.
func (m *Memory[V]) Len() int {
	return m.c.ItemCount()
}

// Flush drops every entry.
func (m *Memory[V]) Flush() {
	m.c.Flush()
}
