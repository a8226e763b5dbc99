package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"daily-trivia-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PublishedLoader resolves the latest active question published on or before cutoff.
type PublishedLoader interface {
	LatestPublished(ctx context.Context, cutoff time.Time) (domain.Question, error)
}

// TodayCache caches today's question per calendar day with TTL to avoid
// repeated store hits from the front page.
type TodayCache struct {
	loader PublishedLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	gen   uint64
	cache map[string]cachedQuestion
}

type cachedQuestion struct {
	question  domain.PublicQuestion
	expiresAt time.Time
}

func NewTodayCache(loader PublishedLoader, ttl time.Duration) *TodayCache {
	return &TodayCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestion),
	}
}

func (c *TodayCache) Today(ctx context.Context, day time.Time) (domain.PublicQuestion, error) {
	key := day.Format(time.DateOnly)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.question, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	// Loads started before an invalidation must not be joined or stored after it.
	flight := key + "#" + strconv.FormatUint(gen, 10)
	result, err, _ := c.sf.Do(flight, func() (interface{}, error) {
		q, err := c.loader.LatestPublished(ctx, day)
		if err != nil {
			return domain.PublicQuestion{}, err
		}
		public := q.Public()

		c.mu.Lock()
		if c.gen == gen {
			c.cache[key] = cachedQuestion{
				question:  public,
				expiresAt: c.clock().Add(c.ttlWithJitter()),
			}
		}
		c.mu.Unlock()
		return public, nil
	})
	if err != nil {
		return domain.PublicQuestion{}, err
	}
	return result.(domain.PublicQuestion), nil
}

func (c *TodayCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	c.gen++
	c.cache = make(map[string]cachedQuestion)
	c.mu.Unlock()
}

func (c *TodayCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
