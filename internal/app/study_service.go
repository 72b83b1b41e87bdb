package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/domain"
)

// CatalogRepository loads the catalog of a level (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, level domain.Level) (*catalog.Catalog, error)
}

// StudyService selects levels and hands out their catalogs.
type StudyService struct {
	levels   []domain.Level
	catalogs CatalogRepository
	logger   *zap.Logger
}

func NewStudyService(levels []domain.Level, catalogs CatalogRepository, logger *zap.Logger) *StudyService {
	return &StudyService{
		levels:   append([]domain.Level(nil), levels...),
		catalogs: catalogs,
		logger:   logger,
	}
}

// Levels returns the level table in display order.
func (s *StudyService) Levels() []domain.Level {
	return append([]domain.Level(nil), s.levels...)
}

// Level looks up a level by identifier.
func (s *StudyService) Level(id string) (domain.Level, error) {
	for _, l := range s.levels {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Level{}, fmt.Errorf("%w: %q", domain.ErrUnknownLevel, id)
}

// OpenLevel returns the catalog of a ready level. Levels that are not ready
// fail with ErrLevelNotReady before any data access; any load failure is
// reported as ErrDataUnavailable.
func (s *StudyService) OpenLevel(ctx context.Context, id string) (*catalog.Catalog, error) {
	level, err := s.Level(id)
	if err != nil {
		return nil, err
	}
	if !level.Ready {
		return nil, fmt.Errorf("%w: %s", domain.ErrLevelNotReady, level.ID)
	}

	c, err := s.catalogs.GetCatalog(ctx, level)
	if err != nil {
		s.logger.Warn("level data unavailable", zap.String("level", level.ID), zap.Error(err))
		if errors.Is(err, domain.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	s.logger.Debug("level opened",
		zap.String("level", level.ID),
		zap.Int("entries", c.Len()),
		zap.Int("skipped", c.Skipped()),
	)
	return c, nil
}
