package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"nandoku-quiz-service/internal/domain"
)

// LevelStore keeps raw level documents in the levels table.
type LevelStore struct {
	pool *pgxpool.Pool
}

func NewLevelStore(pool *pgxpool.Pool) *LevelStore {
	return &LevelStore{pool: pool}
}

func (s *LevelStore) LoadLevel(ctx context.Context, level domain.Level) (string, error) {
	var doc string
	err := s.pool.QueryRow(ctx, `SELECT data FROM levels WHERE id=$1`, level.ID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: level %s not imported", domain.ErrDataUnavailable, level.ID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: load level: %v", domain.ErrDataUnavailable, err)
	}
	return doc, nil
}

// SaveLevel inserts or replaces the document of a level.
func (s *LevelStore) SaveLevel(ctx context.Context, levelID, doc string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO levels (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		levelID, doc)
	if err != nil {
		return fmt.Errorf("save level: %w", err)
	}
	return nil
}
