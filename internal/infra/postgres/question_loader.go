package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"clc-quiz-service/internal/domain"
	"clc-quiz-service/internal/wordbank"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads a tier's word bank rows from Postgres.
type QuestionLoader struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewQuestionLoader(pool *pgxpool.Pool, logger *slog.Logger) *QuestionLoader {
	return &QuestionLoader{pool: pool, logger: logger}
}

func (l *QuestionLoader) LoadTier(ctx context.Context, tier domain.Tier) ([]domain.Question, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnknownTier
	}
	rows, err := l.pool.Query(ctx,
		`SELECT word, correct_answer, options FROM word_bank WHERE tier=$1 ORDER BY id`, string(tier))
	if err != nil {
		return nil, fmt.Errorf("load word bank: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.Word, &q.CorrectAnswer, &raw); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for %q: %w", q.Word, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load word bank: %w", err)
	}

	questions = wordbank.Filter(tier, questions, l.logger)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s: %w", tier, domain.ErrEmptyPool)
	}
	return questions, nil
}
