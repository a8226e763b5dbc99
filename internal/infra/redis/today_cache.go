package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"daily-trivia-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	todayKeyPrefix = "trivia:today:"
	// Outside todayKeyPrefix so Invalidate never deletes it.
	todayGenKey = "trivia:today-gen"
)

// PublishedLoader resolves the latest active question published on or before cutoff.
type PublishedLoader interface {
	LatestPublished(ctx context.Context, cutoff time.Time) (domain.Question, error)
}

// TodayCache caches the public view of today's question in Redis and falls back
// to the loader on a miss. Redis errors degrade to a loader hit.
//
//	SET trivia:today:{gen}:{YYYY-MM-DD} {json} PX {ttl}
//
// Invalidate bumps gen, so a load that started before a write can neither be
// joined by later readers nor stored once it finishes.
type TodayCache struct {
	client *redis.Client
	loader PublishedLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewTodayCache(client *redis.Client, loader PublishedLoader, ttl time.Duration) *TodayCache {
	return &TodayCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TodayCache) Today(ctx context.Context, day time.Time) (domain.PublicQuestion, error) {
	gen := c.generation(ctx)
	key := c.key(gen, day)
	if q, ok := c.cached(ctx, key); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if q, ok := c.cached(ctx, key); ok {
			return q, nil
		}

		q, err := c.loader.LatestPublished(ctx, day)
		if err != nil {
			return domain.PublicQuestion{}, err
		}
		public := q.Public()
		c.store(ctx, gen, key, public)
		return public, nil
	})
	if err != nil {
		return domain.PublicQuestion{}, err
	}
	return result.(domain.PublicQuestion), nil
}

// Invalidate starts a new generation and deletes every cached day. Best effort:
// entries that survive a Redis error still expire with their TTL.
func (c *TodayCache) Invalidate(ctx context.Context) {
	_ = c.client.Incr(ctx, todayGenKey).Err()

	iter := c.client.Scan(ctx, 0, todayKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}
	_ = c.client.Del(ctx, keys...).Err()
}

// store writes public under key only while gen is still current.
func (c *TodayCache) store(ctx context.Context, gen int64, key string, public domain.PublicQuestion) {
	ttl := c.ttlWithJitter()
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(public)
	if err != nil {
		return
	}
	_ = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, todayGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, todayGenKey)
}

func (c *TodayCache) generation(ctx context.Context) int64 {
	gen, err := c.client.Get(ctx, todayGenKey).Int64()
	if err != nil {
		return 0
	}
	return gen
}

func (c *TodayCache) cached(ctx context.Context, key string) (domain.PublicQuestion, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.PublicQuestion{}, false
	}
	var q domain.PublicQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.PublicQuestion{}, false
	}
	return q, true
}

func (c *TodayCache) key(gen int64, day time.Time) string {
	return todayKeyPrefix + strconv.FormatInt(gen, 10) + ":" + day.Format(time.DateOnly)
}

func (c *TodayCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
