package memory

import (
	"context"
	"sort"
	"sync"

	"clc-quiz-service/internal/domain"
)

// ProfileStore keeps player profiles in process. Used for demos, the terminal game and tests.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile
}

func NewProfileStore(seed ...domain.Profile) *ProfileStore {
	s := &ProfileStore{profiles: make(map[string]*domain.Profile, len(seed))}
	for _, p := range seed {
		p := p
		s.profiles[p.PlayerID] = &p
	}
	return s
}

// UpsertPlayer creates the profile or refreshes its name and avatar, keeping experience.
func (s *ProfileStore) UpsertPlayer(_ context.Context, player domain.Player) error {
	if player.ID == "" {
		return domain.ErrNoIdentity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[player.ID]; ok {
		p.DisplayName = player.Name
		p.AvatarSeed = player.AvatarSeed
		return nil
	}
	s.profiles[player.ID] = &domain.Profile{
		PlayerID:    player.ID,
		DisplayName: player.Name,
		AvatarSeed:  player.AvatarSeed,
	}
	return nil
}

// IncrementExperience adds delta, creating the profile under its id when it is missing.
func (s *ProfileStore) IncrementExperience(_ context.Context, playerID string, delta int64) error {
	if playerID == "" {
		return domain.ErrNoIdentity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[playerID]
	if !ok {
		p = &domain.Profile{PlayerID: playerID, DisplayName: playerID}
		s.profiles[playerID] = p
	}
	p.ExperiencePoints += delta
	return nil
}

// TopByExperience ranks by experience, ties broken by player id.
func (s *ProfileStore) TopByExperience(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.profiles))
	for _, p := range s.profiles {
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:         p.PlayerID,
			DisplayName:      p.DisplayName,
			AvatarSeed:       p.AvatarSeed,
			ExperiencePoints: p.ExperiencePoints,
		})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ExperiencePoints != entries[j].ExperiencePoints {
			return entries[i].ExperiencePoints > entries[j].ExperiencePoints
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Profile returns a copy of the stored profile.
func (s *ProfileStore) Profile(playerID string) (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[playerID]
	if !ok {
		return domain.Profile{}, false
	}
	return *p, true
}
