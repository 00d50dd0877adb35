package storagemgr

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
)

var (
	kvCacheHitCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "storage",
		Name:      "kv_cache_hit_counter",
		Help:      "The total number of kv cache hit",
	})

	kvCacheMissCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "storage",
		Name:      "kv_cache_miss_counter",
		Help:      "The total number of kv cache miss",
	})

	kvCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "aawallet",
		Subsystem: "storage",
		Name:      "kv_cache_size",
		Help:      "The number of entries held by the kv cache",
	})
)

func init() {
	prometheus.MustRegister(kvCacheHitCounter)
	prometheus.MustRegister(kvCacheMissCounter)
	prometheus.MustRegister(kvCacheSize)
}

type CachedStorage struct {
	kv.Storage
	cache *CacheWrapper
}

func NewCachedStorage(s kv.Storage, cacheSize int) kv.Storage {
	return &CachedStorage{
		Storage: s,
		cache:   NewCacheWrapper(cacheSize, false),
	}
}

func (c *CachedStorage) Get(key []byte) []byte {
	value, ok := c.cache.Get(key)
	if ok {
		kvCacheHitCounter.Inc()
		return value
	}
	v := c.Storage.Get(key)
	kvCacheMissCounter.Inc()
	if v != nil {
		c.cache.Set(key, v)
		kvCacheSize.Set(float64(c.cache.Len()))
	}
	return v
}

func (c *CachedStorage) Has(key []byte) bool {
	if _, ok := c.cache.Get(key); ok {
		kvCacheHitCounter.Inc()
		return true
	}
	kvCacheMissCounter.Inc()
	return c.Storage.Has(key)
}

func (c *CachedStorage) Put(key, value []byte) {
	if len(value) == 0 {
		value = nil
	}
	c.Storage.Put(key, value)
	c.cache.Set(key, value)
}

func (c *CachedStorage) Delete(key []byte) {
	c.cache.Del(key)
	c.Storage.Delete(key)
}

func (c *CachedStorage) Close() error {
	c.cache.Reset()
	return c.Storage.Close()
}

func (c *CachedStorage) NewBatch() kv.Batch {
	return &BatchWrapper{
		Batch:      c.Storage.NewBatch(),
		cache:      c.cache,
		finalState: make(map[string][]byte),
	}
}

type BatchWrapper struct {
	kv.Batch
	cache      *CacheWrapper
	finalState map[string][]byte
}

func (w *BatchWrapper) Put(key, value []byte) {
	if len(value) == 0 {
		w.finalState[string(key)] = nil
		w.Batch.Delete(key)
	} else {
		w.finalState[string(key)] = value
		w.Batch.Put(key, value)
	}
}

func (w *BatchWrapper) Delete(key []byte) {
	w.finalState[string(key)] = nil
	w.Batch.Delete(key)
}

func (w *BatchWrapper) Commit() {
	w.Batch.Commit()
	for k, v := range w.finalState {
		if v == nil {
			w.cache.Del([]byte(k))
		} else {
			w.cache.Set([]byte(k), v)
		}
	}
	kvCacheSize.Set(float64(w.cache.Len()))
}

func (w *BatchWrapper) Reset() {
	w.Batch.Reset()
	w.finalState = make(map[string][]byte)
}
