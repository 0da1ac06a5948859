package app

import (
	"math/rand"

	"clc-quiz-service/internal/domain"
)

// pickQuestion draws a question from pool, avoiding the previous word whenever the pool
// holds another word. Options are shuffled into a fresh slice.
func pickQuestion(rnd *rand.Rand, pool []domain.Question, previous string) domain.Question {
	candidates := make([]int, 0, len(pool))
	for i, q := range pool {
		if q.Word != previous {
			candidates = append(candidates, i)
		}
	}
	var idx int
	if len(candidates) == 0 {
		idx = rnd.Intn(len(pool))
	} else {
		idx = candidates[rnd.Intn(len(candidates))]
	}

	q := pool[idx]
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	q.Options = options
	return q
}

func newRound(rnd *rand.Rand, pool []domain.Question, previous string) *domain.Round {
	return &domain.Round{
		Question:    pickQuestion(rnd, pool, previous),
		SecondsLeft: domain.RoundSeconds,
	}
}
