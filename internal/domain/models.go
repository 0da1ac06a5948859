package domain

import "strings"

const (
	// RoundSeconds is the countdown every round starts from.
	RoundSeconds = 10
	// MaxLives is the number of misses a session can absorb.
	MaxLives = 3
	// DefaultLeaderboardSize is the number of entries shown on start and game-over screens.
	DefaultLeaderboardSize = 5

	MinOptions = 3
	MaxOptions = 5
)

// Tier is a difficulty bucket controlling scoring weight and word pool.
type Tier string

const (
	TierElementary   Tier = "elementary"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Tiers lists every tier in menu order.
var Tiers = []Tier{TierElementary, TierIntermediate, TierAdvanced}

// ParseTier maps a client-supplied name onto a Tier.
func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	return t, nil
}

func (t Tier) Valid() bool {
	switch t {
	case TierElementary, TierIntermediate, TierAdvanced:
		return true
	}
	return false
}

// BasePoints is awarded for every correct answer in the tier.
func (t Tier) BasePoints() int64 {
	switch t {
	case TierElementary:
		return 10
	case TierIntermediate:
		return 30
	case TierAdvanced:
		return 60
	}
	return 0
}

// BonusMultiplier scales the time and streak bonuses.
func (t Tier) BonusMultiplier() int64 {
	switch t {
	case TierElementary:
		return 1
	case TierIntermediate:
		return 2
	case TierAdvanced:
		return 3
	}
	return 0
}

// Question is a multiple-choice vocabulary item. CorrectAnswer is always one of Options.
type Question struct {
	Word          string   `json:"word" yaml:"word"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"answer"`
	Options       []string `json:"options" yaml:"options"`
}

// WordBank is the static question set partitioned by tier.
type WordBank map[Tier][]Question

// Feedback is the outcome of the live round. FeedbackNone accepts input.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// Phase is the screen the quiz engine is on.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// Session is the mutable state of one play-through.
type Session struct {
	Tier       Tier  `json:"tier"`
	Score      int   `json:"score"`
	Experience int64 `json:"experience"`
	Streak     int   `json:"streak"`
	Lives      int   `json:"lives"`
}

// NewSession returns a fresh session for the tier.
func NewSession(tier Tier) *Session {
	return &Session{Tier: tier, Lives: MaxLives}
}

// Round is the question currently on screen with its countdown.
type Round struct {
	Question    Question
	SecondsLeft int
	Feedback    Feedback
	Earned      int64
	Selected    *string
}

// Player is the identity of whoever is playing. A nil *Player means anonymous.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarSeed string `json:"avatarSeed"`
}

// Profile is the stored record behind a player.
type Profile struct {
	PlayerID         string `json:"playerId"`
	DisplayName      string `json:"displayName"`
	AvatarSeed       string `json:"avatarSeed"`
	ExperiencePoints int64  `json:"experiencePoints"`
}

// LeaderboardEntry is a read-only projection of a profile ranked by experience.
type LeaderboardEntry struct {
	PlayerID         string `json:"playerId"`
	DisplayName      string `json:"displayName"`
	AvatarSeed       string `json:"avatarSeed"`
	ExperiencePoints int64  `json:"experiencePoints"`
}

// RoundView is the client-facing projection of a Round.
// CorrectAnswer is only filled once the round has feedback.
type RoundView struct {
	Word          string   `json:"word"`
	Options       []string `json:"options"`
	SecondsLeft   int      `json:"secondsLeft"`
	Feedback      Feedback `json:"feedback,omitempty"`
	Selected      *string  `json:"selected,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Earned        int64    `json:"earned,omitempty"`
}

// GameState is a snapshot of a game pushed to subscribers.
type GameState struct {
	GameID      string             `json:"gameId"`
	Phase       Phase              `json:"phase"`
	Tiers       []Tier             `json:"tiers,omitempty"`
	Session     *Session           `json:"session,omitempty"`
	Round       *RoundView         `json:"round,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
