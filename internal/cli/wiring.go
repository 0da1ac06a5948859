package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clc-quiz-service/internal/app"
	"clc-quiz-service/internal/config"
	"clc-quiz-service/internal/domain"
	"clc-quiz-service/internal/infra/memory"
	pgstore "clc-quiz-service/internal/infra/postgres"
	redisstore "clc-quiz-service/internal/infra/redis"
	"clc-quiz-service/internal/wordbank"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backends are the optional external stores named in config.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func questionLoader(cfg config.Config, b *backends, logger *slog.Logger) (memory.QuestionLoader, error) {
	if b.pool != nil {
		return pgstore.NewQuestionLoader(b.pool, logger), nil
	}
	bank, err := wordbank.Load(cfg.WordBank.Path, logger)
	if err != nil {
		return nil, err
	}
	return wordbank.NewStaticLoader(bank), nil
}

func profileStore(b *backends) app.ProfileStore {
	switch {
	case b.pool != nil:
		return pgstore.NewProfileStore(b.pool)
	case b.redis != nil:
		return redisstore.NewProfileStore(b.redis)
	default:
		return memory.NewProfileStore()
	}
}

func gameOptions(cfg config.Config) app.GameOptions {
	size := cfg.Game.LeaderboardSize
	if size <= 0 {
		size = domain.DefaultLeaderboardSize
	}
	return app.GameOptions{
		TickInterval:    config.TTLDuration(cfg.Game.TickInterval, time.Second),
		FeedbackDelay:   config.TTLDuration(cfg.Game.FeedbackDelay, time.Second),
		LeaderboardSize: size,
		PersistTimeout:  config.TTLDuration(cfg.Game.PersistTimeout, 5*time.Second),
	}
}

// buildGameService picks a store per concern: Postgres over Redis over memory for
// profiles, Redis over memory for the question cache and game registry.
// ctx bounds the Redis liveness keep-alive, so it should live as long as the server.
func buildGameService(ctx context.Context, cfg config.Config, b *backends, logger *slog.Logger) (*app.GameService, error) {
	loader, err := questionLoader(cfg, b, logger)
	if err != nil {
		return nil, err
	}

	bankTTL := config.TTLDuration(cfg.WordBank.TTL, time.Hour)
	var questions app.QuestionRepository
	var games app.GameRepository
	if b.redis != nil {
		questions = redisstore.NewQuestionRepository(b.redis, loader, bankTTL)
		markerTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		store := redisstore.NewGameStore(b.redis, markerTTL)
		go store.KeepAlive(ctx, markerTTL/2)
		games = store
	} else {
		questions = memory.NewQuestionRepository(loader, bankTTL)
		games = memory.NewGameStore()
	}

	service := app.NewGameService(games, questions, profileStore(b), app.ClockScheduler{}, logger, gameOptions(cfg))
	if err := service.WarmUp(ctx); err != nil {
		return nil, err
	}
	return service, nil
}
