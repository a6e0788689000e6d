package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"coges-quiz-app/internal/app"
	"coges-quiz-app/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedStore decorates a Store with a Redis cache for test lookups. Tests
// are read on every quiz page load but only ever written by the seed tooling,
// so a TTL cache in front of the store removes most document reads.
// Documents are stored as: SET test:{id} {json} EX ttl.
type CachedStore struct {
	app.Store
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewCachedStore(store app.Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:  store,
		client: client,
		ttl:    ttl,
	}
}

func (c *CachedStore) GetTest(ctx context.Context, id string) (domain.Test, error) {
	key := c.key(id)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var test domain.Test
		if err := json.Unmarshal(raw, &test); err == nil {
			return test, nil
		}
		// Unreadable cache entry; drop it and fall through to the store.
		_ = c.client.Del(ctx, key).Err()
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var test domain.Test
			if err := json.Unmarshal(raw, &test); err == nil {
				return test, nil
			}
		}

		test, err := c.Store.GetTest(ctx, id)
		if err != nil {
			return domain.Test{}, err
		}

		if raw, err := json.Marshal(test); err == nil {
			// Cache fill is best-effort; a Redis hiccup must not fail the read.
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return test, nil
	})
	if err != nil {
		return domain.Test{}, err
	}
	return result.(domain.Test), nil
}

func (c *CachedStore) key(id string) string {
	return "test:" + id
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations; the top-level source is safe
	// for the concurrent cache fills singleflight lets through on distinct ids
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
