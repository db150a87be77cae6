package main

import (
	"connectfour/config"
	"connectfour/display"
	"connectfour/engine"
	"connectfour/experiments"
	"connectfour/experiments/metrics"
	"connectfour/player"
	"connectfour/searcher"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	mode := flag.String("mode", "play", "play against the engine (play), run an arena (arena) or measure search speed (throughput)")
	simulations := flag.Int("simulations", 0, "simulations per AI move (overrides search.simulation_count)")
	timeLimit := flag.Int("time-limit-ms", 0, "time limit per AI move in milliseconds (overrides search.time_limit_millis)")
	seed := flag.Uint64("seed", 0, "random seed for the AI (overrides search.seed)")
	aiFirst := flag.Bool("ai-first", false, "let the AI move first")
	games := flag.Int("games", 0, "games to play in arena mode (overrides arena.games)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides log_level)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
		switch f.Name {
		case "simulations":
			cfg.Search.SimulationCount = *simulations
		case "time-limit-ms":
			cfg.Search.TimeLimitMillis = *timeLimit
		case "seed":
			cfg.Search.Seed = *seed
		case "ai-first":
			cfg.Game.HumanFirst = !*aiFirst
		case "games":
			cfg.Arena.Games = *games
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if set["time-limit-ms"] && !set["simulations"] {
		// A time limit on the command line replaces the simulation budget
		cfg.Search.SimulationCount = 0
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	var err error
	switch *mode {
	case "play":
		err = play(ctx, cfg)
	case "arena":
		err = arena(ctx, cfg)
	case "throughput":
		err = throughput(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	stop()

	if err != nil {
		log.Error().Err(err).Msgf("%s failed", *mode)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

// play runs a game between a human on stdin and the search engine.
func play(ctx context.Context, cfg config.Config) error {
	ai, err := player.NewMCTS(append(cfg.Search.Options(), searcher.WithMetrics())...)
	if err != nil {
		return err
	}
	human := player.NewHuman(os.Stdin, os.Stdout)
	renderer := display.NewTerminal(os.Stdout,
		display.WithColor(cfg.Game.Color),
		display.WithClearScreen(cfg.Game.ClearScreen),
		display.WithDelay(time.Duration(cfg.Game.DelayMillis)*time.Millisecond),
	)

	var x, o player.Player = human, ai
	if !cfg.Game.HumanFirst {
		x, o = ai, human
	}

	_, _, moveMetrics, err := engine.New(x, o, engine.WithRenderer(renderer)).Run(ctx)
	if errors.Is(err, player.ErrNoInput) {
		log.Info().Msg("input closed, leaving the game")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("game interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	for _, mm := range moveMetrics {
		if mm.Simulations > 0 {
			log.Debug().Msgf("move %d: column %d after %d simulations in %s", mm.Step, mm.Column, mm.Simulations, mm.Duration)
		}
	}
	return nil
}

// arena plays the configured agents against each other and stores the
// records.
func arena(ctx context.Context, cfg config.Config) error {
	a, err := experiments.NewArena(cfg.Arena)
	if err != nil {
		return err
	}

	games, moves, summary, err := a.Run(ctx)
	if err != nil {
		return err
	}

	if len(cfg.Arena.Formats) > 0 {
		writer, err := metrics.NewWriter(cfg.Arena.OutDir, "arena")
		if err != nil {
			return err
		}
		if err := experiments.Store(writer, cfg.Arena.Formats, cfg.Arena.Agents, games, moves); err != nil {
			return err
		}
	}

	fmt.Printf("%s: %d wins, %s: %d wins, draws: %d (of %d games)\n",
		cfg.Arena.Agents[0].Name, summary.Wins[0],
		cfg.Arena.Agents[1].Name, summary.Wins[1],
		summary.Draws, summary.Games)
	return nil
}

// throughput measures simulations per second for the configured goroutine
// counts. Records are stored like arena records.
func throughput(ctx context.Context, cfg config.Config) error {
	agents, games, moves, results, err := experiments.RunThroughputExperiment(ctx, cfg.Throughput, cfg.Arena.Seed)
	if err != nil {
		return err
	}

	if len(cfg.Arena.Formats) > 0 {
		writer, err := metrics.NewWriter(cfg.Arena.OutDir, "throughput")
		if err != nil {
			return err
		}
		if err := experiments.Store(writer, cfg.Arena.Formats, agents, games, moves); err != nil {
			return err
		}
	}

	for _, result := range results {
		fmt.Printf("%3d goroutines: %8.0f simulations/s over %d moves\n", result.Goroutines, result.PerSecond(), result.Moves)
	}
	return nil
}
