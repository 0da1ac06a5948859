package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"clc-quiz-service/internal/domain"
)

// ProfileStore is the player profile collection shared with the rest of the portal.
type ProfileStore interface {
	UpsertPlayer(ctx context.Context, player domain.Player) error
	// IncrementExperience atomically adds delta to the stored experience points.
	IncrementExperience(ctx context.Context, playerID string, delta int64) error
	TopByExperience(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// QuestionRepository serves the validated question pool of a tier.
type QuestionRepository interface {
	Pool(ctx context.Context, tier domain.Tier) ([]domain.Question, error)
}

// GameOptions tunes timing and leaderboard size.
type GameOptions struct {
	TickInterval    time.Duration
	FeedbackDelay   time.Duration
	LeaderboardSize int
	PersistTimeout  time.Duration
}

func (o GameOptions) withDefaults() GameOptions {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.FeedbackDelay <= 0 {
		o.FeedbackDelay = time.Second
	}
	if o.LeaderboardSize <= 0 {
		o.LeaderboardSize = domain.DefaultLeaderboardSize
	}
	if o.PersistTimeout <= 0 {
		o.PersistTimeout = 5 * time.Second
	}
	return o
}

// GameDeps are the collaborators a Game is built from.
type GameDeps struct {
	Profiles  ProfileStore
	Questions QuestionRepository
	Scheduler Scheduler
	Logger    *slog.Logger
	Options   GameOptions
	Rand      *rand.Rand
}

// Game is one player's quiz: Start -> Playing -> GameOver -> Start | Playing.
// All state lives behind mu. Timer callbacks carry the epoch they were scheduled in and
// are dropped once the epoch moves on, so a stale tick never touches a newer round.
type Game struct {
	id        string
	player    *domain.Player
	profiles  ProfileStore
	questions QuestionRepository
	sched     Scheduler
	logger    *slog.Logger
	opts      GameOptions

	ctx        context.Context
	cancel     context.CancelFunc
	background sync.WaitGroup

	mu             sync.Mutex
	rnd            *rand.Rand
	closed         bool
	phase          domain.Phase
	tier           domain.Tier
	pool           []domain.Question
	session        *domain.Session
	round          *domain.Round
	epoch          uint64
	stopTick       func()
	stopDelay      func()
	leaderboard    []domain.LeaderboardEntry
	leaderboardSeq uint64
	subscribers    map[chan domain.GameState]struct{}
}

// NewGame returns a game on the start screen and begins fetching the leaderboard.
// A nil player (or one without an id) plays anonymously and never persists experience.
func NewGame(id string, player *domain.Player, deps GameDeps) *Game {
	if player != nil && player.ID == "" {
		player = nil
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sched := deps.Scheduler
	if sched == nil {
		sched = ClockScheduler{}
	}
	rnd := deps.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		id:          id,
		player:      player,
		profiles:    deps.Profiles,
		questions:   deps.Questions,
		sched:       sched,
		logger:      logger.With(slog.String("game", id)),
		opts:        deps.Options.withDefaults(),
		ctx:         ctx,
		cancel:      cancel,
		rnd:         rnd,
		phase:       domain.PhaseStart,
		leaderboard: []domain.LeaderboardEntry{},
		subscribers: make(map[chan domain.GameState]struct{}),
	}

	g.mu.Lock()
	g.refreshLeaderboardLocked()
	g.mu.Unlock()
	return g
}

func (g *Game) ID() string {
	return g.id
}

// Player returns the identity the game was opened with, or nil when anonymous.
func (g *Game) Player() *domain.Player {
	return g.player
}

// Start begins a session in tier. It is a no-op unless the game is on the start screen.
func (g *Game) Start(ctx context.Context, tier domain.Tier) error {
	if !tier.Valid() {
		return domain.ErrUnknownTier
	}
	pool, err := g.loadPool(ctx, tier)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.phase != domain.PhaseStart {
		return nil
	}
	g.beginLocked(tier, pool)
	return nil
}

// Replay restarts the last tier with a fresh session. Only valid on the game-over screen.
func (g *Game) Replay(ctx context.Context) error {
	g.mu.Lock()
	if g.closed || g.phase != domain.PhaseGameOver {
		g.mu.Unlock()
		return nil
	}
	tier := g.tier
	g.mu.Unlock()

	pool, err := g.loadPool(ctx, tier)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.phase != domain.PhaseGameOver {
		return nil
	}
	g.beginLocked(tier, pool)
	return nil
}

// Menu drops the current session and returns to the start screen.
func (g *Game) Menu() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.phase == domain.PhaseStart {
		return
	}
	g.stopTimersLocked()
	g.epoch++
	g.phase = domain.PhaseStart
	g.session = nil
	g.round = nil
	g.pool = nil
	g.refreshLeaderboardLocked()
	g.broadcastLocked()
}

// Answer submits option for the live round. It reports false, changing nothing, when the
// round already has feedback or no round is being played.
func (g *Game) Answer(option string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.acceptingLocked() {
		return false
	}
	g.resolveLocked(&option)
	return true
}

// Close stops all timers, discards pending leaderboard results and waits for background
// writes to finish. Subscriber channels are closed.
func (g *Game) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.stopTimersLocked()
	g.epoch++
	for ch := range g.subscribers {
		close(ch)
	}
	g.subscribers = nil
	g.mu.Unlock()

	g.cancel()
	g.background.Wait()
}

// Snapshot returns the current client-facing state.
func (g *Game) Snapshot() domain.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot on every state change, starting
// with the current one. The caller must invoke cancel to avoid leaks.
func (g *Game) Subscribe() (<-chan domain.GameState, func()) {
	ch := make(chan domain.GameState, 8)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	g.subscribers[ch] = struct{}{}
	ch <- g.snapshotLocked()
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *Game) loadPool(ctx context.Context, tier domain.Tier) ([]domain.Question, error) {
	pool, err := g.questions.Pool(ctx, tier)
	if err != nil {
		return nil, fmt.Errorf("load %s pool: %w", tier, err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%s: %w", tier, domain.ErrEmptyPool)
	}
	return pool, nil
}

func (g *Game) acceptingLocked() bool {
	return !g.closed &&
		g.phase == domain.PhasePlaying &&
		g.round != nil &&
		g.round.Feedback == domain.FeedbackNone
}

func (g *Game) beginLocked(tier domain.Tier, pool []domain.Question) {
	g.stopTimersLocked()
	g.tier = tier
	g.pool = pool
	g.session = domain.NewSession(tier)
	g.phase = domain.PhasePlaying
	g.logger.Debug("session started", slog.String("tier", string(tier)))
	g.nextRoundLocked("")
}

func (g *Game) nextRoundLocked(previous string) {
	g.epoch++
	epoch := g.epoch
	g.round = newRound(g.rnd, g.pool, previous)
	g.stopTick = g.sched.Every(g.opts.TickInterval, func() { g.tick(epoch) })
	g.broadcastLocked()
}

func (g *Game) tick(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || !g.acceptingLocked() {
		return
	}
	g.round.SecondsLeft--
	if g.round.SecondsLeft <= 0 {
		g.round.SecondsLeft = 0
		g.resolveLocked(nil)
		return
	}
	g.broadcastLocked()
}

// resolveLocked freezes the round on its answer and schedules what comes next.
func (g *Game) resolveLocked(selected *string) {
	g.stopTickLocked()
	resolveAnswer(g.session, g.round, selected)

	epoch := g.epoch
	g.stopDelay = g.sched.After(g.opts.FeedbackDelay, func() { g.advance(epoch) })
	g.broadcastLocked()
}

func (g *Game) advance(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || epoch != g.epoch || g.phase != domain.PhasePlaying {
		return
	}
	g.stopDelay = nil
	if g.session.Lives == 0 {
		g.gameOverLocked()
		return
	}
	g.nextRoundLocked(g.round.Question.Word)
}

func (g *Game) gameOverLocked() {
	g.stopTimersLocked()
	g.epoch++
	g.phase = domain.PhaseGameOver
	g.logger.Debug("session over",
		slog.String("tier", string(g.tier)),
		slog.Int("score", g.session.Score),
		slog.Int64("experience", g.session.Experience))
	g.persistLocked()
	g.refreshLeaderboardLocked()
	g.broadcastLocked()
}

// persistLocked fires the single experience increment for a finished session.
// The result is only logged.
func (g *Game) persistLocked() {
	xp := g.session.Experience
	if xp <= 0 || g.player == nil {
		return
	}
	playerID := g.player.ID

	g.background.Add(1)
	go func() {
		defer g.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), g.opts.PersistTimeout)
		defer cancel()
		if err := g.profiles.IncrementExperience(ctx, playerID, xp); err != nil {
			g.logger.Warn("persist experience failed",
				slog.String("player", playerID),
				slog.Int64("experience", xp),
				slog.Any("err", err))
			return
		}
		g.logger.Debug("experience persisted", slog.String("player", playerID), slog.Int64("experience", xp))
	}()
}

// refreshLeaderboardLocked starts a fetch; only the latest one is applied and nothing is
// applied after Close.
func (g *Game) refreshLeaderboardLocked() {
	g.leaderboardSeq++
	seq := g.leaderboardSeq

	g.background.Add(1)
	go func() {
		defer g.background.Done()
		entries := FetchLeaderboard(g.ctx, g.profiles, g.opts.LeaderboardSize, g.logger)

		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed || seq != g.leaderboardSeq {
			return
		}
		g.leaderboard = entries
		g.broadcastLocked()
	}()
}

func (g *Game) stopTickLocked() {
	if g.stopTick != nil {
		g.stopTick()
		g.stopTick = nil
	}
}

func (g *Game) stopTimersLocked() {
	g.stopTickLocked()
	if g.stopDelay != nil {
		g.stopDelay()
		g.stopDelay = nil
	}
}

func (g *Game) broadcastLocked() {
	if len(g.subscribers) == 0 {
		return
	}
	state := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- state:
		default:
			// Slow reader: drop its oldest snapshot so the latest always lands.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func (g *Game) snapshotLocked() domain.GameState {
	leaderboard := make([]domain.LeaderboardEntry, len(g.leaderboard))
	copy(leaderboard, g.leaderboard)

	state := domain.GameState{
		GameID:      g.id,
		Phase:       g.phase,
		Leaderboard: leaderboard,
	}
	if g.phase == domain.PhaseStart {
		state.Tiers = domain.Tiers
	}
	if g.session != nil {
		session := *g.session
		state.Session = &session
	}
	if g.round != nil && g.phase == domain.PhasePlaying {
		state.Round = roundView(g.round)
	}
	return state
}

func roundView(r *domain.Round) *domain.RoundView {
	options := make([]string, len(r.Question.Options))
	copy(options, r.Question.Options)
	view := &domain.RoundView{
		Word:        r.Question.Word,
		Options:     options,
		SecondsLeft: r.SecondsLeft,
		Feedback:    r.Feedback,
	}
	if r.Feedback != domain.FeedbackNone {
		view.CorrectAnswer = r.Question.CorrectAnswer
		view.Earned = r.Earned
		if r.Selected != nil {
			selected := *r.Selected
			view.Selected = &selected
		}
	}
	return view
}
