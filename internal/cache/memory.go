package cache

import (
	"sync"
	"time"
)

// Memory is a concurrency-safe in-memory cache. Entries expire after the
// configured TTL; a zero TTL keeps them until evicted.
type Memory[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	max   int
	now   func() time.Time
	items map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemory returns a cache holding at most max entries; max <= 0 means
// unbounded. When full, expired entries are dropped first, then an arbitrary one.
func NewMemory[V any](ttl time.Duration, max int) *Memory[V] {
	return &Memory[V]{
		ttl:   ttl,
		max:   max,
		now:   time.Now,
		items: make(map[string]entry[V]),
	}
}

// Get returns the live value stored under key.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.items[key]
	if !ok || e.expired(m.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key.
func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.items[key]; !exists && m.max > 0 && len(m.items) >= m.max {
		m.evict(now)
	}
	e := entry[V]{value: value}
	if m.ttl > 0 {
		e.expiresAt = now.Add(m.ttl)
	}
	m.items[key] = e
}

func (m *Memory[V]) evict(now time.Time) {
	for key, e := range m.items {
		if e.expired(now) {
			delete(m.items, key)
		}
	}
	if len(m.items) < m.max {
		return
	}
	for key := range m.items {
		delete(m.items, key)
		return
	}
}

// Len returns the number of entries, including expired ones not yet evicted.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}
