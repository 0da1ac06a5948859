package app

import (
	"testing"

	"clc-quiz-service/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTierWeights(t *testing.T) {
	cases := []struct {
		tier domain.Tier
		base int64
		mult int64
	}{
		{domain.TierElementary, 10, 1},
		{domain.TierIntermediate, 30, 2},
		{domain.TierAdvanced, 60, 3},
	}
	for _, tc := range cases {
		require.Equal(t, tc.base, tc.tier.BasePoints(), "%s base points", tc.tier)
		require.Equal(t, tc.mult, tc.tier.BonusMultiplier(), "%s multiplier", tc.tier)
	}
}

func TestEarnedExperience(t *testing.T) {
	cases := []struct {
		name        string
		tier        domain.Tier
		secondsLeft int
		streak      int
		want        int64
	}{
		{"elementary full timer no streak", domain.TierElementary, 10, 0, 20},
		{"advanced four seconds streak two", domain.TierAdvanced, 4, 2, 78},
		{"intermediate last second", domain.TierIntermediate, 1, 5, 30 + 2 + 10},
		{"no time left", domain.TierElementary, 0, 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, EarnedExperience(tc.tier, tc.secondsLeft, tc.streak))
		})
	}
}

func TestResolveAnswer(t *testing.T) {
	question := domain.Question{Word: "gato", CorrectAnswer: "cat", Options: []string{"cat", "dog", "cow"}}
	cat := "cat"
	dog := "dog"

	session := &domain.Session{Tier: domain.TierAdvanced, Lives: 3, Streak: 2}
	round := &domain.Round{Question: question, SecondsLeft: 4}
	resolveAnswer(session, round, &cat)
	require.Equal(t, domain.FeedbackCorrect, round.Feedback)
	require.Equal(t, int64(78), round.Earned)
	require.Equal(t, &domain.Session{Tier: domain.TierAdvanced, Score: 1, Experience: 78, Streak: 3, Lives: 3}, session)

	round = &domain.Round{Question: question, SecondsLeft: 9}
	resolveAnswer(session, round, &dog)
	require.Equal(t, domain.FeedbackWrong, round.Feedback)
	require.Zero(t, round.Earned)
	require.Equal(t, &domain.Session{Tier: domain.TierAdvanced, Score: 1, Experience: 78, Streak: 0, Lives: 2}, session)

	round = &domain.Round{Question: question}
	resolveAnswer(session, round, nil)
	require.Equal(t, domain.FeedbackWrong, round.Feedback, "timeout should count as wrong")
	require.Equal(t, 1, session.Lives)
}

func TestResolveNeverDropsLivesBelowZero(t *testing.T) {
	session := &domain.Session{Tier: domain.TierElementary}
	round := &domain.Round{Question: domain.Question{Word: "a", CorrectAnswer: "b", Options: []string{"b", "c", "d"}}}
	resolveAnswer(session, round, nil)
	require.Zero(t, session.Lives)
}
