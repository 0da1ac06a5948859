package app

import (
	"context"
	"errors"
	"log/slog"

	"clc-quiz-service/internal/domain"
)

// FetchLeaderboard returns up to limit profiles ranked by experience. Store failures are
// logged and yield an empty list so screens degrade to "no data".
func FetchLeaderboard(ctx context.Context, store ProfileStore, limit int, logger *slog.Logger) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = domain.DefaultLeaderboardSize
	}
	entries, err := store.TopByExperience(ctx, limit)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("leaderboard fetch failed", slog.Any("err", err))
		}
		return []domain.LeaderboardEntry{}
	}
	if entries == nil {
		return []domain.LeaderboardEntry{}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
