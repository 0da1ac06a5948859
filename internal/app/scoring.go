package app

import "clc-quiz-service/internal/domain"

// EarnedExperience is the XP for a correct answer: tier base points plus time and streak
// bonuses, both scaled by the tier multiplier. streak is the value before this answer.
func EarnedExperience(tier domain.Tier, secondsLeft, streak int) int64 {
	mult := tier.BonusMultiplier()
	timeBonus := int64(secondsLeft) * mult
	streakBonus := int64(streak) * mult
	return tier.BasePoints() + timeBonus + streakBonus
}

// resolveAnswer applies one answer to the session and round. It must only be called while
// the round has no feedback; callers hold the game lock.
func resolveAnswer(session *domain.Session, round *domain.Round, selected *string) {
	round.Selected = selected
	if round.Question.IsCorrect(selected) {
		earned := EarnedExperience(session.Tier, round.SecondsLeft, session.Streak)
		session.Score++
		session.Experience += earned
		session.Streak++
		round.Earned = earned
		round.Feedback = domain.FeedbackCorrect
		return
	}

	session.Streak = 0
	if session.Lives > 0 {
		session.Lives--
	}
	round.Feedback = domain.FeedbackWrong
}
