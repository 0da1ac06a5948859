package memory

import (
	"sync"

	"clc-quiz-service/internal/app"
)

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*app.Game),
	}
}

func (s *GameStore) Save(game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = game
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
	delete(s.games, gameID)
}

// Len reports how many games are open.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
