// Package cache provides an LRU cache bounded by the total cost of its
// values. The inspector keeps encoded frames in it so that repeated
// requests for an unchanged scene do not re-render.
package cache

import "sync"

// Cache is a thread-safe LRU cache. Each value has a cost (for example its
// size in bytes); when the sum exceeds the budget the least recently used
// entries are evicted.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	order   lruList[K]
	cost    func(V) int
	budget  int
	used    int

	hits, misses, evictions uint64
}

type entry[K comparable, V any] struct {
	value V
	cost  int
	node  *lruNode[K]
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Used      int
	Budget    int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a cache holding values whose total cost stays within budget.
// A nil cost counts every value as 1, making budget an entry count.
// A budget of 0 means unlimited.
func New[K comparable, V any](budget int, cost func(V) int) *Cache[K, V] {
	if cost == nil {
		cost = func(V) int { return 1 }
	}
	return &Cache[K, V]{
		entries: make(map[K]*entry[K, V]),
		cost:    cost,
		budget:  budget,
	}
}

// Get returns the value for key and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.touch(e.node)
	return e.value, true
}

// Set stores value under key, replacing any previous value. A value whose
// cost alone exceeds the budget is not stored, nor is a key that is not
// equal to itself (a NaN float or a struct holding one), since it could
// never be found or removed again. Set reports whether the value was stored.
func (c *Cache[K, V]) Set(key K, value V) bool {
	if key != key {
		return false
	}
	cost := c.cost(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	if c.budget > 0 && cost > c.budget {
		return false
	}
	c.entries[key] = &entry[K, V]{value: value, cost: cost, node: c.order.pushFront(key)}
	c.used += cost
	for c.budget > 0 && c.used > c.budget {
		old, ok := c.order.popBack()
		if !ok {
			break
		}
		if e, found := c.entries[old]; found {
			c.used -= e.cost
			delete(c.entries, old)
			c.evictions++
		}
	}
	return true
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(key)
}

// DeleteFunc removes every entry whose key matches fn and returns how many
// were removed.
func (c *Cache[K, V]) DeleteFunc(fn func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if fn(k) && c.remove(k) {
			n++
		}
	}
	return n
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the current counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Used:      c.used,
		Budget:    c.budget,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// remove deletes key. Caller must hold c.mu.
func (c *Cache[K, V]) remove(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(e.node)
	c.used -= e.cost
	delete(c.entries, key)
	return true
}
