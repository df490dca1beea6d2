package cache

import (
	"container/list"
	"sync"
	"time"
)

// Kind names the resource a cached entry was computed for
type Kind string

const (
	KindDRE      Kind = "dre"
	KindCashFlow Kind = "cashflow"
	KindOverview Kind = "overview"
)

// Key identifies a cached result. Params must encode every input that
// influences the result.
type Key struct {
	UserID string
	Kind   Kind
	Params string
}

type entry[T any] struct {
	key       Key
	data      T
	expiresAt time.Time
}

// Cache is a size-bounded LRU keyed by (user, kind, params) with explicit
// per-user invalidation. A zero ttl disables expiry. Safe for concurrent use.
//
// Every InvalidateUser bumps the user's generation. Callers that compute a
// value outside the lock capture Generation first and store it with
// SetIfGeneration, so a result read before an invalidation is never stored
// after it.
type Cache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[Key]*list.Element
	byUser  map[string]map[Key]struct{}
	gen     map[string]uint64
	lru     *list.List
	now     func() time.Time
}

// New creates a cache holding at most maxSize entries
func New[T any](maxSize int, ttl time.Duration) *Cache[T] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[Key]*list.Element),
		byUser:  make(map[string]map[Key]struct{}),
		gen:     make(map[string]uint64),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get retrieves a value from the cache
func (c *Cache[T]) Get(key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return e.data, true
}

// Set stores a value in the cache
func (c *Cache[T]) Set(key Key, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, data)
}

// Generation returns the invalidation generation of userID
func (c *Cache[T]) Generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[userID]
}

// SetIfGeneration stores data only if the owner of key has not been
// invalidated since gen was read. It reports whether the value was stored.
func (c *Cache[T]) SetIfGeneration(key Key, data T, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[key.UserID] != gen {
		return false
	}
	c.set(key, data)
	return true
}

func (c *Cache[T]) set(key Key, data T) {
	e := &entry[T]{key: key, data: data}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(e)
	if c.byUser[key.UserID] == nil {
		c.byUser[key.UserID] = make(map[Key]struct{})
	}
	c.byUser[key.UserID][key] = struct{}{}

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Delete removes a single key
func (c *Cache[T]) Delete(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// InvalidateUser drops every entry owned by userID and returns how many were removed
func (c *Cache[T]) InvalidateUser(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[userID]++
	keys := c.byUser[userID]
	removed := 0
	for key := range keys {
		if elem, ok := c.items[key]; ok {
			c.removeElement(elem)
			removed++
		}
	}
	delete(c.byUser, userID)
	return removed
}

// Size returns the current number of items in the cache
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[T]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[T])
	delete(c.items, e.key)
	if keys, ok := c.byUser[e.key.UserID]; ok {
		delete(keys, e.key)
		if len(keys) == 0 {
			delete(c.byUser, e.key.UserID)
		}
	}
	c.lru.Remove(elem)
}
