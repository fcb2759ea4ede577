package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalCache(t *testing.T) {
	InitCache()

	CacheSet("k", 42, time.Minute)
	v, ok := CacheGet("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	CacheDelete("k")
	_, ok = CacheGet("k")
	assert.False(t, ok)
}

func TestSearchCacheTTL(t *testing.T) {
	c := NewSearchCache[string](10, 30*time.Millisecond)

	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestSearchCacheEvictsOldest(t *testing.T) {
	c := NewSearchCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}
