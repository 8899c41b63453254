package main

import (
	"fmt"
	"math/rand"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakthi-vetrivel/tichu-bot/internal/app"
	"github.com/sakthi-vetrivel/tichu-bot/internal/bot"
	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

// simConfig holds the simulation settings, loadable from a TOML file and
// overridable per flag.
type simConfig struct {
	Rounds      int    `toml:"rounds"`
	Seed        int64  `toml:"seed"`
	TargetScore int    `toml:"target_score"`
	TeamEvens   string `toml:"team_evens"` // strategy for seats 0 and 2
	TeamOdds    string `toml:"team_odds"`  // strategy for seats 1 and 3
	Verbose     bool   `toml:"verbose"`
}

func defaultSimConfig() simConfig {
	return simConfig{
		Rounds:      50,
		Seed:        1,
		TargetScore: 1000,
		TeamEvens:   "greedy",
		TeamOdds:    "cautious",
	}
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run bot-versus-bot Tichu matches locally",
	Long: `Simulate plays complete rounds with four bots until one team reaches
the target score or the round limit runs out, then prints the result.

Examples:
  tichu simulate --seed 42
  tichu simulate --rounds 20 --team-evens cautious --team-odds greedy
  tichu simulate --config sim.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := defaultSimConfig()

		if path, _ := cmd.Flags().GetString("config"); path != "" {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return fmt.Errorf("load config %s: %w", path, err)
			}
		}
		if cmd.Flags().Changed("rounds") {
			cfg.Rounds, _ = cmd.Flags().GetInt("rounds")
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed, _ = cmd.Flags().GetInt64("seed")
		}
		if cmd.Flags().Changed("target") {
			cfg.TargetScore, _ = cmd.Flags().GetInt("target")
		}
		if cmd.Flags().Changed("team-evens") {
			cfg.TeamEvens, _ = cmd.Flags().GetString("team-evens")
		}
		if cmd.Flags().Changed("team-odds") {
			cfg.TeamOdds, _ = cmd.Flags().GetString("team-odds")
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
		}

		return runSimulation(cfg)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().String("config", "", "Path to a TOML simulation config")
	simulateCmd.Flags().Int("rounds", 50, "Maximum number of rounds to play")
	simulateCmd.Flags().Int64("seed", 1, "Deck shuffle seed")
	simulateCmd.Flags().Int("target", 1000, "Score a team needs to win the match")
	simulateCmd.Flags().String("team-evens", "greedy", "Strategy for seats 0 and 2 (greedy or cautious)")
	simulateCmd.Flags().String("team-odds", "cautious", "Strategy for seats 1 and 3 (greedy or cautious)")
	simulateCmd.Flags().BoolP("verbose", "v", false, "Print per-round scores")
}

func parseLevel(name string) (bot.BotLevel, error) {
	switch name {
	case "greedy":
		return bot.BotLevelGreedy, nil
	case "cautious":
		return bot.BotLevelCautious, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q, want greedy or cautious", name)
	}
}

func runSimulation(cfg simConfig) error {
	evens, err := parseLevel(cfg.TeamEvens)
	if err != nil {
		return err
	}
	odds, err := parseLevel(cfg.TeamOdds)
	if err != nil {
		return err
	}

	svc := app.NewService(rand.New(rand.NewSource(cfg.Seed)))

	var agents [domain.NumSeats]*bot.Agent
	for seat := 0; seat < domain.NumSeats; seat++ {
		level := evens
		if seat%2 == 1 {
			level = odds
		}
		brain, err := bot.NewBrain(level)
		if err != nil {
			return err
		}
		agents[seat] = &bot.Agent{
			ID:       bot.BotUserID(seat),
			Name:     bot.BotName(seat),
			Seat:     seat,
			Strategy: brain,
		}
	}

	teamLabel := [2]string{
		fmt.Sprintf("Team 0 (%s)", cfg.TeamEvens),
		fmt.Sprintf("Team 1 (%s)", cfg.TeamOdds),
	}

	var totals [2]int
	roundsPlayed := 0
	for round := 1; round <= cfg.Rounds; round++ {
		team0, team1, err := playRound(svc, agents)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		totals[0] += team0
		totals[1] += team1
		roundsPlayed = round

		if cfg.Verbose {
			fmt.Printf("Round %3d: %+5d / %+5d  totals %5d / %5d\n",
				round, team0, team1, totals[0], totals[1])
		}

		if (totals[0] >= cfg.TargetScore || totals[1] >= cfg.TargetScore) && totals[0] != totals[1] {
			break
		}
	}

	fmt.Println()
	fmt.Printf("%s after %d rounds:\n", color.CyanString("Final score"), roundsPlayed)
	fmt.Printf("  %s: %s\n", teamLabel[0], color.HiWhiteString("%d", totals[0]))
	fmt.Printf("  %s: %s\n", teamLabel[1], color.HiWhiteString("%d", totals[1]))

	switch {
	case totals[0] > totals[1]:
		color.HiGreen("%s wins!", teamLabel[0])
	case totals[1] > totals[0]:
		color.HiGreen("%s wins!", teamLabel[1])
	default:
		color.HiYellow("Tied match.")
	}
	return nil
}

// playRound drives one full round with the four agents and returns the team
// score deltas.
func playRound(svc *app.Service, agents [domain.NumSeats]*bot.Agent) (int, int, error) {
	var players [domain.NumSeats]*domain.Player
	for seat, agent := range agents {
		players[seat] = &domain.Player{
			ID:     agent.ID,
			Name:   agent.Name,
			Active: true,
		}
	}

	round, _, err := svc.StartRound(players)
	if err != nil {
		return 0, 0, err
	}
	if _, err := svc.CompleteDeal(round); err != nil {
		return 0, 0, err
	}
	game := round.Game

	// One round cannot take anywhere near this many turns; hitting the
	// ceiling means the engine stalled.
	for turn := 0; turn < 10000; turn++ {
		if game.Phase == domain.PhaseEnded {
			break
		}

		if winner, _, ok := game.PendingDragonTrick(); ok {
			recipient := bot.PickDragonRecipient(game, winner)
			if _, err := svc.GiveDragonTrick(game, recipient); err != nil {
				return 0, 0, err
			}
			continue
		}

		seat := game.CurrentTurn
		move, err := agents[seat].Play(game)
		if err != nil {
			return 0, 0, err
		}

		var events []app.Event
		if move.Pass {
			events, err = svc.PassTurn(round, seat)
		} else {
			events, err = svc.PlayCards(round, seat, move.Cards)
		}
		if err != nil {
			return 0, 0, err
		}

		for _, ev := range events {
			if ev.Kind == app.EventRoundEnded {
				p := ev.Payload.(app.RoundEndedPayload)
				return p.Team0Score, p.Team1Score, nil
			}
		}
	}

	if game.Phase != domain.PhaseEnded {
		return 0, 0, fmt.Errorf("round did not finish")
	}
	team0, team1 := domain.ComputeRoundScore(game)
	return team0, team1, nil
}
