package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache is an expiring key-value cache with msgpack-encoded values.
type Cache interface {
	Get(key string, target any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Cache key prefixes
const (
	KeyContent    = "content"
	KeyLaunchURLs = "launchurls"
)

// Key constructs a cache key from the passed segments
func Key(segments ...string) string {
	return strings.Join(segments, ":")
}

var cacheCache Cache = newMemoryCache(time.Minute)

// SetCache sets the Cache that is used
func SetCache(cache Cache) {
	cacheCache = cache
}

// UseRedisCache sets a redis Cache with the passed options as the used cache
func UseRedisCache(options *redis.Options) error {
	client := redis.NewClient(options)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}
	SetCache(&redisCache{client: client})
	return nil
}

// Get unmarshals the cached value for key into target; the bool return
// indicates whether the key was set
func Get(key string, target any) (bool, error) {
	return cacheCache.Get(key, target)
}

// Set caches value at key for the passed expiration
func Set(key string, value any, expiration time.Duration) error {
	return cacheCache.Set(key, value, expiration)
}

type memoryCacheEntry struct {
	data    []byte
	expires time.Time
}

type memoryCache struct {
	mutex   sync.RWMutex
	entries map[string]memoryCacheEntry
}

func newMemoryCache(cleanupInterval time.Duration) *memoryCache {
	c := &memoryCache{entries: make(map[string]memoryCacheEntry)}
	go func() {
		for range time.Tick(cleanupInterval) {
			c.cleanup()
		}
	}()
	return c
}

func (c *memoryCache) cleanup() {
	now := time.Now()
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
		}
	}
}

func (c *memoryCache) Get(key string, target any) (bool, error) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return false, nil
	}
	if err := msgpack.Unmarshal(entry.data, target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *memoryCache) Set(key string, value any, expiration time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = memoryCacheEntry{data: data, expires: time.Now().Add(expiration)}
	return nil
}

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(key string, target any) (bool, error) {
	data, err := c.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err = msgpack.Unmarshal(data, target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) Set(key string, value any, expiration time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(context.Background(), key, data, expiration).Err()
}
