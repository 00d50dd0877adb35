package storagemgr

import (
	lru "github.com/hashicorp/golang-lru"
)

type CacheWrapper struct {
	cache *lru.Cache

	metrics *CacheMetrics

	enableMetric bool
}

type CacheMetrics struct {
	CacheHitCounter  int
	CacheMissCounter int
}

// NewCacheWrapper builds an LRU cache holding at most size entries.
func NewCacheWrapper(size int, enableMetric bool) *CacheWrapper {
	if size <= 0 {
		size = 4096
	}
	cache, err := lru.New(size)
	if err != nil {
		panic(err)
	}

	return &CacheWrapper{
		cache:        cache,
		metrics:      &CacheMetrics{},
		enableMetric: enableMetric,
	}
}

func (c *CacheWrapper) ResetCounterMetrics() {
	c.metrics.CacheMissCounter = 0
	c.metrics.CacheHitCounter = 0
}

func (c *CacheWrapper) ExportMetrics() *CacheMetrics {
	return c.metrics
}

func (c *CacheWrapper) Get(k []byte) ([]byte, bool) {
	res, ok := c.cache.Get(string(k))
	if c.enableMetric {
		if ok {
			c.metrics.CacheHitCounter++
		} else {
			c.metrics.CacheMissCounter++
		}
	}
	if !ok {
		return nil, false
	}
	return res.([]byte), true
}

func (c *CacheWrapper) Set(k []byte, v []byte) {
	c.cache.Add(string(k), v)
}

func (c *CacheWrapper) Del(k []byte) {
	c.cache.Remove(string(k))
}

func (c *CacheWrapper) Len() int {
	return c.cache.Len()
}

func (c *CacheWrapper) Reset() {
	c.cache.Purge()
	c.metrics = &CacheMetrics{}
}
