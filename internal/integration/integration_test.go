package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"nandoku-quiz-service/internal/app"
	"nandoku-quiz-service/internal/config"
	"nandoku-quiz-service/internal/domain"
	"nandoku-quiz-service/internal/infra/postgres"
	pgmigrations "nandoku-quiz-service/internal/infra/postgres/migrations"
	infraredis "nandoku-quiz-service/internal/infra/redis"
)

func TestOpenLevelEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateLevels(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	store := postgres.NewLevelStore(pool)
	if err := store.SaveLevel(ctx, "1", sampleDocument()); err != nil {
		t.Fatalf("save level: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	repo := infraredis.NewLevelRepository(redisClient, store, "https://example.com/data", 5*time.Minute)
	service := app.NewStudyService(config.DefaultLevels(), repo, zap.NewNop())

	c, err := service.OpenLevel(ctx, "1")
	if err != nil {
		t.Fatalf("open level: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if n, err := redisClient.Exists(ctx, "level:1:data").Result(); err != nil || n != 1 {
		t.Fatalf("expected document cached in redis, n=%d err=%v", n, err)
	}

	if _, err := service.OpenLevel(ctx, "2"); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable for unimported level, got %v", err)
	}

	engine := app.NewEngine(app.NewRand())
	s, err := engine.Start(c.FilterByTag("動物"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one question, got %d", s.Len())
	}
	outcome, err := engine.SubmitAnswer("あし")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Correct {
		t.Fatalf("expected correct answer, got %+v", outcome)
	}
	_, summary, done, err := engine.Advance()
	if err != nil || !done {
		t.Fatalf("expected finished session, done=%v err=%v", done, err)
	}
	if summary.Correct != 1 || summary.Total != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "nandoku", "POSTGRES_PASSWORD": "nandokupass", "POSTGRES_DB": "nandoku"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://nandoku:nandokupass@%s:%s/nandoku?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateLevels(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleDocument() string {
	return "path,reading,meaning,additional_info,components\n" +
		"img1.png,あし'びき',,動物,足 引\n" +
		"img2.png,はな,,植物・藻類,花\n"
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
