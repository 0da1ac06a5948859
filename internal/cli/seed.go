package cli

import (
	"log/slog"

	"clc-quiz-service/internal/domain"
	pgstore "clc-quiz-service/internal/infra/postgres"
	redisstore "clc-quiz-service/internal/infra/redis"
	"clc-quiz-service/internal/wordbank"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewSeedCmd upserts a YAML word bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the word bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.WordBank.Path
			}
			bank, err := wordbank.Load(file, logger)
			if err != nil {
				return err
			}

			db, err := openBunDB(cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrateDB(ctx, db, logger); err != nil {
				return err
			}

			n, err := pgstore.SeedWordBank(ctx, db, bank)
			if err != nil {
				return err
			}
			logger.Info("word bank seeded", slog.Int("questions", n))

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer client.Close()
				cache := redisstore.NewQuestionRepository(client, nil, 0)
				for _, tier := range domain.Tiers {
					if err := cache.Invalidate(ctx, tier); err != nil {
						logger.Warn("word bank cache not cleared", slog.String("tier", string(tier)), slog.Any("err", err))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "word bank YAML (defaults to config wordbank.path, then the built-in bank)")
	return cmd
}
