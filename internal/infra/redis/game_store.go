package redis

import (
	"context"
	"sync"
	"time"

	"clc-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Games hold timers and subscriber channels, so the live objects stay in a local map;
// Redis only carries a liveness marker per open game for operators and other instances.
// Markers expire after ttl unless KeepAlive re-arms them.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
	}
}

func (s *GameStore) Save(game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = game
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(game.ID()), "1", s.ttl).Err()
}

func (s *GameStore) Get(gameID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	return game, ok
}

func (s *GameStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		return
	}
	delete(s.games, gameID)
	_ = s.client.Del(context.Background(), s.key(gameID)).Err()
}

// Refresh re-arms the liveness marker of every game held locally, recreating expired ones.
func (s *GameStore) Refresh(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.games) == 0 {
		return nil
	}
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id := range s.games {
			pipe.Set(ctx, s.key(id), "1", s.ttl)
		}
		return nil
	})
	return err
}

// KeepAlive calls Refresh every interval until ctx is done. Failures are retried on the
// next tick.
func (s *GameStore) KeepAlive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

func (s *GameStore) key(gameID string) string {
	return "clc:game:" + gameID
}
