package cache

import (
	"sync"
	"time"
)

// InMemory is a process-local map that remembers when each key was last
// written. Entries never expire on their own; see EvictIdle.
type InMemory[K comparable, V any] struct {
	storage map[K]V
	lastSet map[K]time.Time

	now func() time.Time
	mx  sync.RWMutex
}

func NewInMemory[K comparable, V any]() *InMemory[K, V] {
	return &InMemory[K, V]{
		storage: make(map[K]V, 100), //nolint:mnd // initial capacity
		lastSet: make(map[K]time.Time, 100), //nolint:mnd // initial capacity

		now: time.Now,
		mx:  sync.RWMutex{},
	}
}

func (c *InMemory[K, V]) Get(key K) (V, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	v, ok := c.storage[key]
	return v, ok
}

func (c *InMemory[K, V]) Set(key K, value V) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.storage[key] = value
	c.lastSet[key] = c.now()
}

func (c *InMemory[K, V]) Delete(key K) {
	c.mx.Lock()
	defer c.mx.Unlock()
	delete(c.storage, key)
	delete(c.lastSet, key)
}

func (c *InMemory[K, V]) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.storage)
}

// EvictIdle removes entries not written for longer than ttl and returns how
// many were removed.
func (c *InMemory[K, V]) EvictIdle(ttl time.Duration) int {
	c.mx.Lock()
	defer c.mx.Unlock()

	evicted := 0
	now := c.now()
	for key, at := range c.lastSet {
		if now.Sub(at) > ttl {
			delete(c.storage, key)
			delete(c.lastSet, key)
			evicted++
		}
	}
	return evicted
}
