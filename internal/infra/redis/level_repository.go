package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/domain"
)

// LevelLoader fetches the raw tabular document of a level from a backing store.
type LevelLoader interface {
	LoadLevel(ctx context.Context, level domain.Level) (string, error)
}

// LevelRepository caches raw level documents in Redis and falls back to a
// loader on cache miss. Documents are stored as:
//
//	SET level:{levelID}:data {document} EX {ttl}
//
// Catalogs are parsed from the cached document on every call.
type LevelRepository struct {
	client  *redis.Client
	loader  LevelLoader
	baseURL string
	ttl     time.Duration
	sf      singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLevelRepository(client *redis.Client, loader LevelLoader, baseURL string, ttl time.Duration) *LevelRepository {
	return &LevelRepository{
		client:  client,
		loader:  loader,
		baseURL: baseURL,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *LevelRepository) GetCatalog(ctx context.Context, level domain.Level) (*catalog.Catalog, error) {
	key := r.dataKey(level.ID)

	doc, err := r.client.Get(ctx, key).Result()
	if err == nil {
		return r.parse(level, doc)
	}

	result, err, _ := r.sf.Do(level.ID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if doc, err := r.client.Get(ctx, key).Result(); err == nil {
			return doc, nil
		}

		doc, err := r.loader.LoadLevel(ctx, level)
		if err != nil {
			return "", err
		}
		// Best effort: a cache write failure still serves the loaded document.
		_ = r.client.Set(ctx, key, doc, r.ttlWithJitter()).Err()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return r.parse(level, result.(string))
}

// Invalidate drops the cached document of a level.
func (r *LevelRepository) Invalidate(ctx context.Context, levelID string) error {
	err := r.client.Del(ctx, r.dataKey(levelID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (r *LevelRepository) parse(level domain.Level, doc string) (*catalog.Catalog, error) {
	c, err := catalog.Parse(level, level.Location(r.baseURL), doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return c, nil
}

func (r *LevelRepository) dataKey(levelID string) string {
	return "level:" + levelID + ":data"
}

func (r *LevelRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
