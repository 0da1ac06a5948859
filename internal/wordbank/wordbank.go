// Package wordbank parses and validates the tiered vocabulary question set.
package wordbank

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"clc-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultBank []byte

// Default returns the word bank compiled into the binary.
func Default(logger *slog.Logger) (domain.WordBank, error) {
	return Parse(defaultBank, logger)
}

// LoadFile reads a YAML word bank from disk.
func LoadFile(path string, logger *slog.Logger) (domain.WordBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}
	return Parse(data, logger)
}

// Load returns the bank at path, or the embedded default when path is empty.
func Load(path string, logger *slog.Logger) (domain.WordBank, error) {
	if path == "" {
		return Default(logger)
	}
	return LoadFile(path, logger)
}

// Parse decodes a YAML document keyed by tier name. Unknown tiers and entries that
// fail validation are logged and dropped rather than failing the whole bank.
func Parse(data []byte, logger *slog.Logger) (domain.WordBank, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw := map[string][]domain.Question{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode word bank: %w", err)
	}

	merged := make(map[domain.Tier][]domain.Question, len(domain.Tiers))
	for name, questions := range raw {
		tier, err := domain.ParseTier(name)
		if err != nil {
			logger.Warn("skipping unknown word bank tier", slog.String("tier", name))
			continue
		}
		merged[tier] = append(merged[tier], questions...)
	}

	bank := make(domain.WordBank, len(merged))
	for tier, questions := range merged {
		bank[tier] = Filter(tier, questions, logger)
	}
	return bank, nil
}

// Filter keeps the questions that pass validation. A word may appear once per tier;
// later repeats are dropped.
func Filter(tier domain.Tier, questions []domain.Question, logger *slog.Logger) []domain.Question {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]domain.Question, 0, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			logger.Warn("skipping word bank entry", slog.String("tier", string(tier)), slog.Any("err", err))
			continue
		}
		if _, dup := seen[q.Word]; dup {
			logger.Warn("skipping duplicate word bank entry",
				slog.String("tier", string(tier)),
				slog.String("word", q.Word))
			continue
		}
		seen[q.Word] = struct{}{}
		kept = append(kept, q)
	}
	return kept
}

// StaticLoader serves tier pools from an in-memory bank.
type StaticLoader struct {
	bank domain.WordBank
}

func NewStaticLoader(bank domain.WordBank) *StaticLoader {
	return &StaticLoader{bank: bank}
}

func (l *StaticLoader) LoadTier(_ context.Context, tier domain.Tier) ([]domain.Question, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnknownTier
	}
	questions := l.bank[tier]
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s: %w", tier, domain.ErrEmptyPool)
	}
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}
