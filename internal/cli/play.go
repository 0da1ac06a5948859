package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"clc-quiz-service/internal/app"
	"clc-quiz-service/internal/config"
	"clc-quiz-service/internal/domain"
	"clc-quiz-service/internal/infra/memory"
	"clc-quiz-service/internal/wordbank"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a quiz in the terminal against in-memory stores.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the vocabulary quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			bank, err := wordbank.Load(cfg.WordBank.Path, logger)
			if err != nil {
				return err
			}

			profiles := memory.NewProfileStore()
			service := app.NewGameService(
				memory.NewGameStore(),
				memory.NewQuestionRepository(wordbank.NewStaticLoader(bank), config.TTLDuration(cfg.WordBank.TTL, time.Hour)),
				profiles,
				app.ClockScheduler{},
				logger,
				gameOptions(cfg),
			)
			if err := service.WarmUp(cmd.Context()); err != nil {
				return err
			}

			player := &domain.Player{ID: "local", Name: name}
			return playTerminal(cmd.Context(), service, player, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&name, "name", "player", "display name on the leaderboard")
	return cmd
}

func playTerminal(ctx context.Context, service *app.GameService, player *domain.Player, in io.Reader, out io.Writer) error {
	game, err := service.Open(ctx, player)
	if err != nil {
		return err
	}
	defer service.Close(game.ID())

	updates, cancel := game.Subscribe()
	defer cancel()

	renderDone := make(chan struct{})
	go func() {
		defer close(renderDone)
		var r terminalRenderer
		for state := range updates {
			r.render(out, state)
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			break
		}
		state := game.Snapshot()
		switch state.Phase {
		case domain.PhaseStart:
			tier, err := tierFromInput(line)
			if err != nil {
				fmt.Fprintln(out, "choose 1, 2 or 3")
				continue
			}
			if err := game.Start(ctx, tier); err != nil {
				fmt.Fprintln(out, "cannot start:", err)
			}
		case domain.PhasePlaying:
			if state.Round == nil {
				continue
			}
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 || n > len(state.Round.Options) {
				fmt.Fprintf(out, "pick 1-%d\n", len(state.Round.Options))
				continue
			}
			game.Answer(state.Round.Options[n-1])
		case domain.PhaseGameOver:
			switch line {
			case "r":
				if err := game.Replay(ctx); err != nil {
					fmt.Fprintln(out, "cannot replay:", err)
				}
			case "m":
				game.Menu()
			}
		}
	}

	cancel()
	<-renderDone
	return scanner.Err()
}

func tierFromInput(line string) (domain.Tier, error) {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(domain.Tiers) {
		return domain.Tiers[n-1], nil
	}
	return domain.ParseTier(line)
}

// terminalRenderer prints a screen when it changes and only the countdown on ticks.
type terminalRenderer struct {
	lastKey string
}

func (r *terminalRenderer) render(out io.Writer, state domain.GameState) {
	key := string(state.Phase)
	if state.Round != nil {
		key += "|" + state.Round.Word + "|" + string(state.Round.Feedback)
	}
	if state.Phase != domain.PhasePlaying {
		key += "|" + strconv.Itoa(len(state.Leaderboard))
	}
	if key == r.lastKey {
		if state.Round != nil && state.Round.Feedback == domain.FeedbackNone {
			fmt.Fprintf(out, "  %ds\n", state.Round.SecondsLeft)
		}
		return
	}
	r.lastKey = key

	switch state.Phase {
	case domain.PhaseStart:
		fmt.Fprintln(out, "\n== CLC vocabulary quiz ==")
		for i, tier := range domain.Tiers {
			fmt.Fprintf(out, "  %d) %s (%d pts)\n", i+1, tier, tier.BasePoints())
		}
		printLeaderboard(out, state.Leaderboard)
		fmt.Fprintln(out, "choose a tier, q to quit")
	case domain.PhasePlaying:
		printRound(out, state)
	case domain.PhaseGameOver:
		fmt.Fprintln(out, "\n== game over ==")
		if s := state.Session; s != nil {
			fmt.Fprintf(out, "score %d, experience %d\n", s.Score, s.Experience)
		}
		printLeaderboard(out, state.Leaderboard)
		fmt.Fprintln(out, "r to replay, m for menu, q to quit")
	}
}

func printRound(out io.Writer, state domain.GameState) {
	round, s := state.Round, state.Session
	if round == nil || s == nil {
		return
	}
	switch round.Feedback {
	case domain.FeedbackCorrect:
		fmt.Fprintf(out, "correct! +%d xp\n", round.Earned)
		return
	case domain.FeedbackWrong:
		fmt.Fprintf(out, "wrong, the answer was %q\n", round.CorrectAnswer)
		return
	}
	fmt.Fprintf(out, "\n[%s] lives %s  streak %d  xp %d\n", s.Tier, strings.Repeat("♥", s.Lives), s.Streak, s.Experience)
	fmt.Fprintf(out, "translate %q (%s)\n", round.Word, time.Duration(round.SecondsLeft)*time.Second)
	for i, opt := range round.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
}

func printLeaderboard(out io.Writer, entries []domain.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "leaderboard: no data")
		return
	}
	fmt.Fprintln(out, "leaderboard:")
	for i, e := range entries {
		fmt.Fprintf(out, "  %d. %-16s %6d xp\n", i+1, e.DisplayName, e.ExperiencePoints)
	}
}
