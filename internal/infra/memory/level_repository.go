package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/domain"
)

// LevelLoader fetches the raw tabular document of a level from a backing store.
type LevelLoader interface {
	LoadLevel(ctx context.Context, level domain.Level) (string, error)
}

// LevelRepository caches parsed catalogs with TTL to avoid repeated fetches.
type LevelRepository struct {
	loader  LevelLoader
	baseURL string
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedCatalog
}

type cachedCatalog struct {
	catalog   *catalog.Catalog
	expiresAt time.Time
}

// NewLevelRepository resolves image references of every catalog against the
// level location under baseURL.
func NewLevelRepository(loader LevelLoader, baseURL string, ttl time.Duration) *LevelRepository {
	return &LevelRepository{
		loader:  loader,
		baseURL: baseURL,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedCatalog),
	}
}

func (r *LevelRepository) GetCatalog(ctx context.Context, level domain.Level) (*catalog.Catalog, error) {
	if c, ok := r.cached(level.ID, r.clock()); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(level.ID, func() (interface{}, error) {
		now := r.clock()
		if c, ok := r.cached(level.ID, now); ok {
			return c, nil
		}

		doc, err := r.loader.LoadLevel(ctx, level)
		if err != nil {
			return nil, err
		}
		c, err := catalog.Parse(level, level.Location(r.baseURL), doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
		}

		r.mu.Lock()
		r.cache[level.ID] = cachedCatalog{
			catalog:   c,
			expiresAt: now.Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*catalog.Catalog), nil
}

// Invalidate drops the cached catalog of a level.
func (r *LevelRepository) Invalidate(levelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, levelID)
}

func (r *LevelRepository) cached(levelID string, now time.Time) (*catalog.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[levelID]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.catalog, true
}

// StaticLevelLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticLevelLoader struct {
	docs map[string]string
}

func NewStaticLevelLoader(docs map[string]string) *StaticLevelLoader {
	return &StaticLevelLoader{docs: docs}
}

func (l *StaticLevelLoader) LoadLevel(_ context.Context, level domain.Level) (string, error) {
	if doc, ok := l.docs[level.ID]; ok {
		return doc, nil
	}
	return "", fmt.Errorf("%w: no document for level %s", domain.ErrDataUnavailable, level.ID)
}

// ttlWithJitterLocked must be called with mu held.
func (r *LevelRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
