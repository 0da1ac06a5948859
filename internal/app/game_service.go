package app

import (
	"context"
	"fmt"
	"log/slog"

	"clc-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// GameRepository abstracts where open games are registered (in-memory, Redis-marked, etc).
type GameRepository interface {
	Save(game *Game)
	Get(gameID string) (*Game, bool)
	Delete(gameID string)
}

// GameService opens, looks up and closes games and answers leaderboard queries.
type GameService struct {
	games     GameRepository
	questions QuestionRepository
	profiles  ProfileStore
	sched     Scheduler
	logger    *slog.Logger
	opts      GameOptions
	newID     func() string
}

func NewGameService(
	games GameRepository,
	questions QuestionRepository,
	profiles ProfileStore,
	sched Scheduler,
	logger *slog.Logger,
	opts GameOptions,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if sched == nil {
		sched = ClockScheduler{}
	}
	return &GameService{
		games:     games,
		questions: questions,
		profiles:  profiles,
		sched:     sched,
		logger:    logger,
		opts:      opts.withDefaults(),
		newID:     uuid.NewString,
	}
}

// WarmUp loads every tier once so the word bank is resident before games start.
func (s *GameService) WarmUp(ctx context.Context) error {
	for _, tier := range domain.Tiers {
		pool, err := s.questions.Pool(ctx, tier)
		if err != nil {
			return fmt.Errorf("warm %s pool: %w", tier, err)
		}
		if len(pool) == 0 {
			return fmt.Errorf("warm %s pool: %w", tier, domain.ErrEmptyPool)
		}
		s.logger.Debug("word bank tier loaded", slog.String("tier", string(tier)), slog.Int("questions", len(pool)))
	}
	return nil
}

// Open creates a game on the start screen. When a player is given, their profile is
// registered first; a registration failure is logged and the game is still playable.
func (s *GameService) Open(ctx context.Context, player *domain.Player) (*Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if player != nil && player.ID != "" {
		if err := s.profiles.UpsertPlayer(ctx, *player); err != nil {
			s.logger.Warn("register player failed", slog.String("player", player.ID), slog.Any("err", err))
		}
	}

	game := NewGame(s.newID(), player, GameDeps{
		Profiles:  s.profiles,
		Questions: s.questions,
		Scheduler: s.sched,
		Logger:    s.logger,
		Options:   s.opts,
	})
	s.games.Save(game)
	return game, nil
}

// Game returns a registered game.
func (s *GameService) Game(gameID string) (*Game, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

// Close stops a game and unregisters it. Unknown ids are ignored.
func (s *GameService) Close(gameID string) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return
	}
	game.Close()
	s.games.Delete(gameID)
}

// Leaderboard returns the top profiles, or an empty list when the store is unavailable.
func (s *GameService) Leaderboard(ctx context.Context, limit int) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = s.opts.LeaderboardSize
	}
	return FetchLeaderboard(ctx, s.profiles, limit, s.logger)
}
