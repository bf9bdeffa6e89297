package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through cache in front of Redis. A nil *Cache is valid
// and always calls the loader, so callers need no "cache disabled" branch.
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int, prefix string) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: prefix,
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func verKey(k string) string { return k + ":ver" }

// storeIfCurrent writes the value only while the key's version still equals
// the one read before loading. An Invalidate in between bumps the version.
var storeIfCurrent = redis.NewScript(`
if (redis.call("GET", KEYS[2]) or "0") == ARGV[2] then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
	return 1
end
return 0
`)

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil || ttl <= 0 {
		return load(ctx)
	}
	k := c.key(key)
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	}
	// concurrent misses share one load
	v, err, _ := c.sf.Do(k, func() (any, error) {
		ver, e := c.RDB.Get(ctx, verKey(k)).Int64()
		if e != nil && !errors.Is(e, redis.Nil) {
			return load(ctx)
		}
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = storeIfCurrent.Run(ctx, c.RDB, []string{k, verKey(k)},
			b, strconv.FormatInt(ver, 10), ttl.Milliseconds()).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops keys and bumps their versions so a load already in flight
// cannot write its result back. Redis failures are ignored since entries
// expire anyway.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	_, _ = c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, key := range keys {
			k := c.key(key)
			p.Del(ctx, k)
			p.Incr(ctx, verKey(k))
		}
		return nil
	})
	for _, key := range keys {
		c.sf.Forget(c.key(key))
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}
