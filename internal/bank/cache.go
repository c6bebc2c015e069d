package bank

import (
	"sync"
	"time"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// CacheKey identifies one page of normalized bank results.
type CacheKey struct {
	ExamType question.ExamType
	Subject  string
	Year     int // 0 = all years
	Page     int
}

type cacheEntry struct {
	questions []question.Question
	createdAt time.Time
	expiresAt time.Time
}

// Cache is a time-bounded memo of normalized fetch results. Expiry is
// lazy: stale entries answer as a miss and are dropped on the next Get.
// A disabled cache misses on every Get and drops every Put; correctness
// never depends on it.
type Cache struct {
	mu      sync.Mutex
	enabled bool
	ttl     time.Duration
	entries map[CacheKey]cacheEntry
	now     func() time.Time
}

func NewCache(enabled bool, ttl time.Duration) *Cache {
	return &Cache{
		enabled: enabled,
		ttl:     ttl,
		entries: map[CacheKey]cacheEntry{},
		now:     time.Now,
	}
}

func (c *Cache) Get(key CacheKey) ([]question.Question, bool) {
	if c == nil || !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.questions, true
}

func (c *Cache) Put(key CacheKey, qs []question.Question) {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.entries[key] = cacheEntry{
		questions: qs,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// Clear drops entries for one exam type, or everything when examType is
// empty.
func (c *Cache) Clear(examType question.ExamType) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if examType == "" {
		c.entries = map[CacheKey]cacheEntry{}
		return
	}
	for k := range c.entries {
		if k.ExamType == examType {
			delete(c.entries, k)
		}
	}
}

// Len reports live (unexpired) entries; used by diagnostics.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if c.now().Before(e.expiresAt) {
			n++
		}
	}
	return n
}
