package postgres

import (
	"context"
	"fmt"

	"clc-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type wordRow struct {
	bun.BaseModel `bun:"table:word_bank"`

	ID            int64    `bun:"id,pk,autoincrement"`
	Tier          string   `bun:"tier,notnull"`
	Word          string   `bun:"word,notnull"`
	CorrectAnswer string   `bun:"correct_answer,notnull"`
	Options       []string `bun:"options,type:jsonb,notnull"`
}

// SeedWordBank upserts every question of bank, keyed by (tier, word).
// It returns the number of rows written.
func SeedWordBank(ctx context.Context, db *bun.DB, bank domain.WordBank) (int, error) {
	rows := make([]wordRow, 0)
	for _, tier := range domain.Tiers {
		// One statement may not touch the same (tier, word) row twice.
		seen := make(map[string]struct{}, len(bank[tier]))
		for _, q := range bank[tier] {
			if err := q.Validate(); err != nil {
				return 0, err
			}
			if _, dup := seen[q.Word]; dup {
				continue
			}
			seen[q.Word] = struct{}{}
			rows = append(rows, wordRow{
				Tier:          string(tier),
				Word:          q.Word,
				CorrectAnswer: q.CorrectAnswer,
				Options:       q.Options,
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (tier, word) DO UPDATE").
		Set("correct_answer = EXCLUDED.correct_answer").
		Set("options = EXCLUDED.options").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed word bank: %w", err)
	}
	return len(rows), nil
}
