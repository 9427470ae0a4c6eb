package providers

import (
	"errors"
	"studytime/internal/structures"

	"github.com/coocood/freecache"
)

// fallbackTTLSeconds applies when the config leaves cache.ttl unset.
const fallbackTTLSeconds = 60

// CacheProviderInterface holds derived read models (the leaderboard ranking,
// the achievement catalog) as encoded bytes. A miss always means "recompute".
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
}

// ReadModelCache keeps read models in a fixed-size freecache segment.
// Entries expire after ttl seconds or when evicted by newer writes.
type ReadModelCache struct {
	segments *freecache.Cache
	ttl      int
	logger   Logger
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	c := conf.Cache
	if !c.Enabled || c.Size <= 0 {
		logger.Infof(TypeApp, "Read model cache off, every read goes to the store")
		return &uncached{}
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = fallbackTTLSeconds
	}
	logger.Infof(TypeApp, "Read model cache: %d MiB, entries live %ds", c.Size, ttl)

	return &ReadModelCache{
		segments: freecache.NewCache(c.Size << 20),
		ttl:      ttl,
		logger:   logger,
	}
}

func (c *ReadModelCache) Get(key string) ([]byte, bool) {
	val, err := c.segments.Get([]byte(key))
	return val, err == nil
}

// Set stores value under key. Entries freecache cannot hold are skipped and
// the next read recomputes.
func (c *ReadModelCache) Set(key string, value []byte) {
	err := c.segments.Set([]byte(key), value, c.ttl)
	if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
		c.logger.Warnf(TypeStorage, "Read model %q (%d bytes) does not fit the cache", key, len(value))
	}
}

func (c *ReadModelCache) Del(key string) {
	c.segments.Del([]byte(key))
}

// uncached is used when the cache is switched off.
type uncached struct{}

func (uncached) Get(string) ([]byte, bool) { return nil, false }
func (uncached) Set(string, []byte)        {}
func (uncached) Del(string)                {}
