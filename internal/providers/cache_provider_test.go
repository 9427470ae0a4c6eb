package providers

import (
	"studytime/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{ warns int }

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  { m.warns++ }
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, size int, ttl int) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    size,
			TTL:     ttl,
		},
	}
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(false, 10, 5), logger)
	_, ok := c.Get("any")
	assert.False(t, ok)
	assert.IsType(t, &uncached{}, c)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 0, 5), logger)
	assert.IsType(t, &uncached{}, c)
}

func TestCacheProvider_EnabledReturnsReadModelCache(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 1, 5), logger)
	assert.IsType(t, &ReadModelCache{}, c)
}

func TestCacheProvider_SetAndGet(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 1, 5), logger)

	c.Set("key1", []byte("value1"))
	val, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("value1"), val)
}

func TestCacheProvider_Miss(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 1, 5), logger)

	val, ok := c.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCacheProvider_Overwrite(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 1, 5), logger)

	c.Set("key1", []byte("v1"))
	c.Set("key1", []byte("v2"))

	val, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), val)
}

func TestUncached_AlwaysMiss(t *testing.T) {
	c := &uncached{}
	c.Set("key1", []byte("value1"))

	val, ok := c.Get("key1")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCacheProvider_TTLExpiry(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 1, 1), logger)

	c.Set("key1", []byte("value1"))
	val, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("value1"), val)

	time.Sleep(2100 * time.Millisecond)

	_, ok = c.Get("key1")
	assert.False(t, ok)
}

func TestCacheProvider_Del(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 5), &cacheTestLogger{})
	c.Set("leaderboard", []byte("[]"))
	c.Del("leaderboard")

	_, ok := c.Get("leaderboard")
	assert.False(t, ok)
}

func TestCacheProvider_DefaultTTL(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 0), &cacheTestLogger{})
	require.IsType(t, &ReadModelCache{}, c)
	assert.Equal(t, fallbackTTLSeconds, c.(*ReadModelCache).ttl)
}

func TestCacheProvider_OversizedEntrySkipped(t *testing.T) {
	logger := &cacheTestLogger{}
	c := NewCacheProvider(cacheConfig(true, 1, 5), logger)

	// A 1 MiB cache holds entries up to 1/1024 of its size.
	c.Set("leaderboard:all", make([]byte, 4096))
	_, ok := c.Get("leaderboard:all")
	assert.False(t, ok)
	assert.Equal(t, 1, logger.warns)

	c.Set("achievements:catalog", []byte("[]"))
	_, ok = c.Get("achievements:catalog")
	assert.True(t, ok)
	assert.Equal(t, 1, logger.warns)
}
