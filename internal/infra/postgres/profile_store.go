package postgres

import (
	"context"
	"fmt"

	"clc-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProfileStore reads and updates the profiles table.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) UpsertPlayer(ctx context.Context, player domain.Player) error {
	if player.ID == "" {
		return domain.ErrNoIdentity
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, name, avatar_seed) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, avatar_seed=EXCLUDED.avatar_seed, updated_at=now()`,
		player.ID, player.Name, player.AvatarSeed)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// IncrementExperience adds delta server-side; there is no client read-modify-write.
// A missing profile is created under its id.
func (s *ProfileStore) IncrementExperience(ctx context.Context, playerID string, delta int64) error {
	if playerID == "" {
		return domain.ErrNoIdentity
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, name, experience_points) VALUES ($1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET experience_points = profiles.experience_points + EXCLUDED.experience_points, updated_at=now()`,
		playerID, delta)
	if err != nil {
		return fmt.Errorf("increment experience: %w", err)
	}
	return nil
}

func (s *ProfileStore) TopByExperience(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultLeaderboardSize
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, avatar_seed, experience_points FROM profiles
		ORDER BY experience_points DESC, id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("rank profiles: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.DisplayName, &e.AvatarSeed, &e.ExperiencePoints); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rank profiles: %w", err)
	}
	return entries, nil
}
