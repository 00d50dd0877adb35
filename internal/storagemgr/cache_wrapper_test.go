package storagemgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheWrapper(t *testing.T) {
	cache := NewCacheWrapper(2, true)

	_, ok := cache.Get([]byte("k1"))
	assert.False(t, ok)

	cache.Set([]byte("k1"), []byte("v1"))
	cache.Set([]byte("k2"), []byte("v2"))
	v, ok := cache.Get([]byte("k1"))
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	// k2 is the least recently used entry now
	cache.Set([]byte("k3"), []byte("v3"))
	_, ok = cache.Get([]byte("k2"))
	assert.False(t, ok)
	assert.Equal(t, 2, cache.Len())

	metrics := cache.ExportMetrics()
	assert.Equal(t, 1, metrics.CacheHitCounter)
	assert.Equal(t, 2, metrics.CacheMissCounter)

	cache.Del([]byte("k1"))
	_, ok = cache.Get([]byte("k1"))
	assert.False(t, ok)

	cache.ResetCounterMetrics()
	assert.Equal(t, 0, cache.ExportMetrics().CacheHitCounter)

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
}
