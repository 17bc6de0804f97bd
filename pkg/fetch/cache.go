package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "sf:query:"

type localEntry struct {
	expires time.Time
	data    []byte
}

// Cache is a two-level result cache: a process-local map in front of an
// optional shared redis instance. Entries are inserted, never mutated.
type Cache struct {
	mu     sync.Mutex
	client *redis.Client
	local  map[string]localEntry
}

func NewCache(addr, password string, db int) *Cache {
	var rdb *redis.Client
	if addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		})
	}
	return &Cache{client: rdb, local: make(map[string]localEntry)}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	c.mu.Lock()
	entry, found := c.local[key]
	if found && entry.expires.Before(time.Now()) {
		delete(c.local, key)
		found = false
	}
	c.mu.Unlock()
	if found {
		return json.Unmarshal(entry.data, out)
	}
	if c.client == nil {
		return ErrCacheMiss
	}
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(time.Minute), data: data}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(expiration), data: data}
	c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, keyPrefix+key, data, expiration).Err()
}

// Flush drops every cached result, called when the catalog changes.
func (c *Cache) Flush(ctx context.Context) error {
	c.mu.Lock()
	c.local = make(map[string]localEntry)
	c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
