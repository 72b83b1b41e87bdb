package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nandoku-quiz-service/internal/catalog"
	"nandoku-quiz-service/internal/config"
	"nandoku-quiz-service/internal/domain"
	"nandoku-quiz-service/internal/infra/postgres"
	"nandoku-quiz-service/internal/infra/source"
)

// NewImportCmd copies level documents into postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		levelID string
		file    string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import level documents into postgres",
		Long: "Import reads a level document from --file, or fetches it from the configured " +
			"data location, checks that it parses and stores it in the levels table. " +
			"Without --level every ready level is imported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runImport(cmd.Context(), cfg, log, levelID, file)
		},
	}
	cmd.Flags().StringVar(&levelID, "level", "", "level identifier (default: all ready levels)")
	cmd.Flags().StringVar(&file, "file", "", "local document to import (requires --level)")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, log *zap.Logger, levelID, file string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if file != "" && levelID == "" {
		return fmt.Errorf("--file requires --level")
	}
	if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := postgres.NewLevelStore(pool)
	src := source.New(cfg.Data.BaseURL, cfg.Data.FileName, config.TTLDuration(cfg.Data.Timeout, 10*time.Second))

	imported := 0
	for _, level := range cfg.Levels {
		if levelID != "" && level.ID != levelID {
			continue
		}
		if levelID == "" && !level.Ready {
			continue
		}
		imported++

		var doc string
		if file != "" {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			doc = string(raw)
		} else {
			doc, err = src.LoadLevel(ctx, level)
			if err != nil {
				return err
			}
		}

		c, err := catalog.Parse(level, level.Location(cfg.Data.BaseURL), doc)
		if err != nil {
			return fmt.Errorf("level %s: %w", level.ID, err)
		}
		if err := store.SaveLevel(ctx, level.ID, doc); err != nil {
			return err
		}
		log.Info("level imported",
			zap.String("level", level.ID),
			zap.Int("entries", c.Len()),
			zap.Int("skipped", c.Skipped()),
		)
	}
	if levelID != "" && imported == 0 {
		return fmt.Errorf("%w: %q", domain.ErrUnknownLevel, levelID)
	}
	return nil
}
