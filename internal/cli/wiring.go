package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nandoku-quiz-service/internal/app"
	"nandoku-quiz-service/internal/config"
	"nandoku-quiz-service/internal/infra/memory"
	"nandoku-quiz-service/internal/infra/postgres"
	redisinfra "nandoku-quiz-service/internal/infra/redis"
	"nandoku-quiz-service/internal/infra/source"
	"nandoku-quiz-service/internal/logger"
)

// deps holds everything built from config. close releases pools and clients.
type deps struct {
	cfg      config.Config
	logger   *zap.Logger
	service  *app.StudyService
	registry app.SessionRegistry
	close    func()
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// buildDeps picks the level loader (postgres when configured, otherwise the
// published data location) and the cache (redis when configured, otherwise
// in-process).
func buildDeps(ctx context.Context, cfg config.Config, log *zap.Logger) (*deps, error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		_ = log.Sync()
	}

	var loader memory.LevelLoader = source.New(
		cfg.Data.BaseURL,
		cfg.Data.FileName,
		config.TTLDuration(cfg.Data.Timeout, 10*time.Second),
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, pool.Close)
		loader = postgres.NewLevelStore(pool)
		log.Info("loading levels from postgres")
	} else {
		log.Info("loading levels from data location", zap.String("base_url", cfg.Data.BaseURL))
	}

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
	var repo app.CatalogRepository
	var registry app.SessionRegistry
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		repo = redisinfra.NewLevelRepository(client, loader, cfg.Data.BaseURL, cacheTTL)
		registry = redisinfra.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		log.Info("using redis cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		repo = memory.NewLevelRepository(loader, cfg.Data.BaseURL, cacheTTL)
		registry = memory.NewSessionStore()
	}

	return &deps{
		cfg:      cfg,
		logger:   log,
		service:  app.NewStudyService(cfg.Levels, repo, log),
		registry: registry,
		close:    closeAll,
	}, nil
}
