package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/egyptian-spider/game/engine"
)

// maxSimulatedCommands bounds a single simulated game
const maxSimulatedCommands = 5000

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play headless games with a greedy player and report the win rate",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 100},
			&cli.Int64Flag{Name: "seed", Usage: "seed of the first game; 0 picks one from the clock"},
			&cli.BoolFlag{Name: "reveal-all", Usage: "deal every card face up"},
			&cli.BoolFlag{Name: "any-to-empty", Usage: "allow any card onto empty columns"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print one line per game"},
		},
		Action: runSimulate,
	}
}

// SimulationResult summarizes one simulated game
type SimulationResult struct {
	Seed        int64
	Won         bool
	Moves       int
	Foundations int
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	games := cmd.Int("games")
	if games <= 0 {
		return fmt.Errorf("games must be positive, got %d", games)
	}
	seed := cmd.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	settings := engine.Settings{
		RevealAllCards:            cmd.Bool("reveal-all"),
		AllowAnyCardToEmptyColumn: cmd.Bool("any-to-empty"),
	}

	out := cmd.Root().Writer
	if out == nil {
		out = io.Discard
	}

	wins := 0
	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := simulateGame(seed+int64(i), settings, logger)
		if err != nil {
			return err
		}
		if result.Won {
			wins++
		}
		if cmd.Bool("verbose") {
			fmt.Fprintf(out, "seed=%d won=%t moves=%d foundations=%d\n",
				result.Seed, result.Won, result.Moves, result.Foundations)
		}
	}

	fmt.Fprintf(out, "won %d of %d games (%.1f%%)\n", wins, games, 100*float64(wins)/float64(games))
	return nil
}

// simulateGame plays one game to completion with the greedy strategy
func simulateGame(seed int64, settings engine.Settings, logger *zap.Logger) (SimulationResult, error) {
	cfg := &engine.GameConfig{
		Name:        "simulation",
		Description: "headless greedy player",
		Settings:    settings,
		Seed:        seed,
	}
	eng, err := engine.NewEngine(cfg,
		engine.WithTiming(engine.Timing{}),
		engine.WithLogger(logger.Named("sim")),
	)
	if err != nil {
		return SimulationResult{}, err
	}
	defer eng.Close()

	eng.Initialize(settings)
	for i := 0; i < maxSimulatedCommands && !eng.IsWon(); i++ {
		if !playGreedy(eng) {
			break
		}
	}

	state := eng.State()
	return SimulationResult{
		Seed:        seed,
		Won:         eng.IsWon(),
		Moves:       state.Moves,
		Foundations: state.FoundationCount(),
	}, nil
}

// playGreedy applies one command: a foundation move, else a productive
// column move, else a draw. It reports false when nothing applies.
func playGreedy(eng *engine.GameEngine) bool {
	state := eng.State()
	moves := engine.LegalMoves(state, eng.Settings())

	var productive []engine.Move
	for _, m := range moves {
		if m.Target.Kind == engine.PileFoundation && m.Source.Kind == engine.PileColumn {
			if eng.MoveCard(m.Source, m.Target) {
				return true
			}
			continue
		}
		if engine.IsProductive(state, m) {
			productive = append(productive, m)
		}
	}

	// Longer runs first: they expose more of a column at once
	best := -1
	for i, m := range productive {
		if best < 0 || m.Cards > productive[best].Cards {
			best = i
		}
	}
	if best >= 0 && eng.MoveCard(productive[best].Source, productive[best].Target) {
		return true
	}

	return eng.DrawCards()
}
