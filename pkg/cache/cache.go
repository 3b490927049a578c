package cache

import (
	"container/list"
	"encoding/hex"
	"hash/fnv"
	"sync"
	"time"
)

// Cache is an in-memory TTL cache with LRU eviction, safe for concurrent
// use. The app memoizes freeform completion results in it.
type Cache struct {
	mu       sync.Mutex
	items    map[string]*entry
	order    *list.List // MRU at front, LRU at back
	maxItems int        // 0 = unlimited
}

type entry struct {
	key  string
	val  string
	exp  int64 // unix seconds; 0 = no expiry
	elem *list.Element
}

var (
	defaultCache *Cache
	once         sync.Once
)

// Default returns a process-wide cache instance with a background janitor.
func Default() *Cache {
	once.Do(func() {
		defaultCache = New(500)
		go defaultCache.janitor(60 * time.Second)
	})
	return defaultCache
}

func New(maxItems int) *Cache {
	if maxItems < 0 {
		maxItems = 0
	}
	return &Cache{items: make(map[string]*entry), order: list.New(), maxItems: maxItems}
}

// Get returns the cached text and whether it exists and has not expired.
func (c *Cache) Get(key string) (string, bool) {
	now := time.Now().Unix()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return "", false
	}
	if e.exp != 0 && e.exp < now {
		c.removeLocked(e)
		return "", false
	}
	c.order.MoveToFront(e.elem)
	return e.val, true
}

// Set stores text with a TTL. ttl<=0 means no expiry. Empty values are not
// cached so failed completions are always retried.
func (c *Cache) Set(key, val string, ttl time.Duration) {
	if val == "" {
		return
	}
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).Unix()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.val, e.exp = val, exp
		c.order.MoveToFront(e.elem)
		return
	}
	e := &entry{key: key, val: val, exp: exp}
	e.elem = c.order.PushFront(e)
	c.items[key] = e
	if c.maxItems > 0 && c.order.Len() > c.maxItems {
		if back := c.order.Back(); back != nil {
			c.removeLocked(back.Value.(*entry))
		}
	}
}

// Delete removes a key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.removeLocked(e)
	}
}

// SetMaxItems updates capacity; safe to call at startup.
func (c *Cache) SetMaxItems(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxItems = n
	for c.maxItems > 0 && c.order.Len() > c.maxItems {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeLocked(back.Value.(*entry))
	}
}

func (c *Cache) janitor(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for range t.C {
		now := time.Now().Unix()
		c.mu.Lock()
		for _, e := range c.items {
			if e.exp != 0 && e.exp < now {
				c.removeLocked(e)
			}
		}
		c.mu.Unlock()
	}
}

// removeLocked unlinks an entry; caller must hold c.mu.
func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.items, e.key)
}

// KeyFromStrings creates a compact stable key from parts.
func KeyFromStrings(parts ...string) string {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
