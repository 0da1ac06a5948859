package domain

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	cases := []struct {
		name string
		q    Question
		ok   bool
	}{
		{"valid", Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"perro", "gato", "pez"}}, true},
		{"five options", Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"a", "b", "c", "d", "perro"}}, true},
		{"answer missing", Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"gato", "pez", "oso"}}, false},
		{"too few", Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"perro", "gato"}}, false},
		{"too many", Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"perro", "a", "b", "c", "d", "e"}}, false},
		{"duplicate", Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"perro", "perro", "gato"}}, false},
		{"empty word", Question{Word: " ", CorrectAnswer: "perro", Options: []string{"perro", "gato", "pez"}}, false},
		{"case differs", Question{Word: "dog", CorrectAnswer: "Perro", Options: []string{"perro", "gato", "pez"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("expected ErrInvalidQuestion, got %v", err)
			}
		})
	}
}

func TestIsCorrectIsExactMatch(t *testing.T) {
	q := Question{Word: "dog", CorrectAnswer: "perro", Options: []string{"perro", "gato", "pez"}}
	exact, upper, padded := "perro", "Perro", " perro"

	if !q.IsCorrect(&exact) {
		t.Fatalf("exact match should be correct")
	}
	if q.IsCorrect(&upper) || q.IsCorrect(&padded) {
		t.Fatalf("comparison must be case and whitespace sensitive")
	}
	if q.IsCorrect(nil) {
		t.Fatalf("timeout must never be correct")
	}
}

func TestParseTier(t *testing.T) {
	for _, raw := range []string{"elementary", "Intermediate", " ADVANCED "} {
		if _, err := ParseTier(raw); err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
	}
	if _, err := ParseTier("expert"); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected unknown tier, got %v", err)
	}
}

func TestNewSession(t *testing.T) {
	s := NewSession(TierIntermediate)
	if s.Lives != MaxLives || s.Score != 0 || s.Experience != 0 || s.Streak != 0 {
		t.Fatalf("unexpected fresh session %+v", s)
	}
}
