package window

import "sync"

type cacheKey struct {
	typ    Type
	scale  float64
	length int
}

// Cache memoizes kernel factors per (type, scale, length). It is safe for
// concurrent use. Returned slices are copies, so callers may modify them.
type Cache struct {
	mu      sync.RWMutex
	factors map[cacheKey][]float64
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{factors: make(map[cacheKey][]float64)}
}

// Factors returns k.Factors(length), computing it at most once per key.
func (c *Cache) Factors(k Kernel, length int) ([]float64, error) {
	key := cacheKey{typ: k.Type, scale: k.Scale, length: length}

	c.mu.RLock()
	f, ok := c.factors[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return append([]float64(nil), f...), nil
	}

	f, err := k.Factors(length)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.factors[key]; ok {
		f = existing
		c.hits++
	} else {
		c.factors[key] = f
		c.misses++
	}
	c.mu.Unlock()

	return append([]float64(nil), f...), nil
}

// Len returns the number of cached factor vectors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.factors)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// For binds k to the cache so it can be used as a Factorer.
func (c *Cache) For(k Kernel) Factorer {
	return cached{cache: c, kernel: k}
}

type cached struct {
	cache  *Cache
	kernel Kernel
}

func (c cached) Factors(length int) ([]float64, error) {
	return c.cache.Factors(c.kernel, length)
}
