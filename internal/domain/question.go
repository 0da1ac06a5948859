package domain

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants of a word bank entry.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Word) == "" {
		return fmt.Errorf("%w: empty word", ErrInvalidQuestion)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("%w: %q has no answer", ErrInvalidQuestion, q.Word)
	}
	if n := len(q.Options); n < MinOptions || n > MaxOptions {
		return fmt.Errorf("%w: %q has %d options, want %d-%d", ErrInvalidQuestion, q.Word, n, MinOptions, MaxOptions)
	}
	seen := make(map[string]struct{}, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("%w: %q has an empty option", ErrInvalidQuestion, q.Word)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: %q repeats option %q", ErrInvalidQuestion, q.Word, opt)
		}
		seen[opt] = struct{}{}
		if opt == q.CorrectAnswer {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %q options do not contain %q", ErrInvalidQuestion, q.Word, q.CorrectAnswer)
	}
	return nil
}

// IsCorrect reports whether selected matches the answer. A nil selection (timeout) never does.
func (q Question) IsCorrect(selected *string) bool {
	return selected != nil && *selected == q.CorrectAnswer
}
