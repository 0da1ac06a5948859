package app_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"clc-quiz-service/internal/app"
	"clc-quiz-service/internal/domain"
	"clc-quiz-service/internal/infra/memory"
	"clc-quiz-service/internal/wordbank"
	"github.com/stretchr/testify/require"
)

// manualScheduler fires ticks and delays only when the test says so.
type manualScheduler struct {
	mu      sync.Mutex
	tickers []*task
	delays  []*task
}

type task struct {
	fn      func()
	stopped bool
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	return s.add(&s.tickers, fn)
}

func (s *manualScheduler) After(_ time.Duration, fn func()) func() {
	return s.add(&s.delays, fn)
}

func (s *manualScheduler) add(list *[]*task, fn func()) func() {
	t := &task{fn: fn}
	s.mu.Lock()
	*list = append(*list, t)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		t.stopped = true
		s.mu.Unlock()
	}
}

func (s *manualScheduler) active(list []*task) []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fns []func()
	for _, t := range list {
		if !t.stopped {
			fns = append(fns, t.fn)
		}
	}
	return fns
}

// Tick fires every live ticker n times.
func (s *manualScheduler) Tick(n int) {
	for i := 0; i < n; i++ {
		s.mu.Lock()
		tickers := s.tickers
		s.mu.Unlock()
		for _, fn := range s.active(tickers) {
			fn()
		}
	}
}

// TickAll fires every ticker ever scheduled, including stopped ones, to mimic a tick that
// raced its cancellation.
func (s *manualScheduler) TickAll() {
	s.mu.Lock()
	tickers := append([]*task(nil), s.tickers...)
	s.mu.Unlock()
	for _, t := range tickers {
		t.fn()
	}
}

// Flush runs pending delays once, marking them fired.
func (s *manualScheduler) Flush() {
	s.mu.Lock()
	var pending []func()
	for _, t := range s.delays {
		if !t.stopped {
			t.stopped = true
			pending = append(pending, t.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (s *manualScheduler) LiveTickers() int {
	s.mu.Lock()
	tickers := s.tickers
	s.mu.Unlock()
	return len(s.active(tickers))
}

type increment struct {
	playerID string
	delta    int64
}

// fakeProfiles records calls and can be told to fail.
type fakeProfiles struct {
	mu         sync.Mutex
	upserts    []domain.Player
	increments []increment
	topCalls   int
	top        []domain.LeaderboardEntry
	incErr     error
	topErr     error
	block      chan struct{}
}

func (f *fakeProfiles) UpsertPlayer(_ context.Context, player domain.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, player)
	return nil
}

func (f *fakeProfiles) IncrementExperience(_ context.Context, playerID string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments = append(f.increments, increment{playerID: playerID, delta: delta})
	return f.incErr
}

func (f *fakeProfiles) TopByExperience(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	f.mu.Lock()
	f.topCalls++
	block, top, err := f.block, f.top, f.topErr
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (f *fakeProfiles) Increments() []increment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]increment(nil), f.increments...)
}

func (f *fakeProfiles) TopCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topCalls
}

var answers = map[string]string{
	"uno":    "one",
	"dos":    "two",
	"tres":   "three",
	"cuatro": "four",
}

func testBank() domain.WordBank {
	options := []string{"one", "two", "three", "four"}
	var pool []domain.Question
	for word, answer := range answers {
		pool = append(pool, domain.Question{Word: word, CorrectAnswer: answer, Options: options})
	}
	return domain.WordBank{
		domain.TierElementary:   pool,
		domain.TierIntermediate: pool,
		domain.TierAdvanced:     pool,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGame(t *testing.T, player *domain.Player, profiles *fakeProfiles) (*app.Game, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	questions := memory.NewQuestionRepository(wordbank.NewStaticLoader(testBank()), time.Minute)
	game := app.NewGame("game-1", player, app.GameDeps{
		Profiles:  profiles,
		Questions: questions,
		Scheduler: sched,
		Logger:    discardLogger(),
		Rand:      rand.New(rand.NewSource(1)),
	})
	t.Cleanup(game.Close)
	return game, sched
}

func correctAnswer(t *testing.T, game *app.Game) string {
	t.Helper()
	state := game.Snapshot()
	require.NotNil(t, state.Round, "no live round in phase %s", state.Phase)
	return answers[state.Round.Word]
}
