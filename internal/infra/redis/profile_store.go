package redis

import (
	"context"
	"fmt"

	"clc-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKey = "clc:leaderboard:xp"

	fieldName       = "name"
	fieldAvatarSeed = "avatarSeed"
	fieldExperience = "experiencePoints"
)

// ProfileStore keeps profiles as hashes and mirrors experience into a sorted set:
//
//	HSET clc:profile:{id} name .. avatarSeed .. experiencePoints ..
//	ZADD clc:leaderboard:xp {experiencePoints} {id}
type ProfileStore struct {
	client *redis.Client
}

func NewProfileStore(client *redis.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) UpsertPlayer(ctx context.Context, player domain.Player) error {
	if player.ID == "" {
		return domain.ErrNoIdentity
	}
	key := profileKey(player.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldName, player.Name, fieldAvatarSeed, player.AvatarSeed)
		pipe.HSetNX(ctx, key, fieldExperience, 0)
		pipe.ZAddNX(ctx, leaderboardKey, redis.Z{Score: 0, Member: player.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// IncrementExperience adds delta to the hash and the sorted set in one MULTI/EXEC.
// HINCRBY and ZINCRBY create what is missing; a profile that was never upserted gets its
// id as name.
func (s *ProfileStore) IncrementExperience(ctx context.Context, playerID string, delta int64) error {
	if playerID == "" {
		return domain.ErrNoIdentity
	}
	key := profileKey(playerID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldName, playerID)
		pipe.HIncrBy(ctx, key, fieldExperience, delta)
		pipe.ZIncrBy(ctx, leaderboardKey, float64(delta), playerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("increment experience: %w", err)
	}
	return nil
}

// TopByExperience reads the sorted set top-down; equal scores keep Redis' member order.
func (s *ProfileStore) TopByExperience(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultLeaderboardSize
	}
	ranked, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("rank profiles: %w", err)
	}
	if len(ranked) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	pipe := s.client.Pipeline()
	details := make([]*redis.SliceCmd, len(ranked))
	for i, z := range ranked {
		details[i] = pipe.HMGet(ctx, profileKey(fmt.Sprint(z.Member)), fieldName, fieldAvatarSeed)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		vals := details[i].Val()
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:         fmt.Sprint(z.Member),
			DisplayName:      stringAt(vals, 0),
			AvatarSeed:       stringAt(vals, 1),
			ExperiencePoints: int64(z.Score),
		})
	}
	return entries, nil
}

func profileKey(playerID string) string {
	return "clc:profile:" + playerID
}

func stringAt(vals []interface{}, i int) string {
	if i >= len(vals) || vals[i] == nil {
		return ""
	}
	if s, ok := vals[i].(string); ok {
		return s
	}
	return fmt.Sprint(vals[i])
}
