package experiments

import (
	"connectfour/config"
	"connectfour/experiments/metrics"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Throughput is the search speed measured for one goroutine count.
type Throughput struct {
	Goroutines  int
	Moves       int
	Simulations int
	Searching   time.Duration
}

func (t Throughput) PerSecond() float64 {
	if t.Searching <= 0 {
		return 0
	}
	return float64(t.Simulations) / t.Searching.Seconds()
}

// RunThroughputExperiment plays time limited self-play games for every
// goroutine count. Both sides share one configuration so that games have a
// similar length and strength. Games run one at a time so that searches do
// not compete for cores.
func RunThroughputExperiment(ctx context.Context, cfg config.ThroughputConfig, seed uint64) ([]config.AgentConfig, []metrics.GameRecord, []metrics.MoveRecord, []Throughput, error) {
	agents := make([]config.AgentConfig, 0, len(cfg.Goroutines))
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	results := make([]Throughput, 0, len(cfg.Goroutines))

	log.Info().Msg("starting throughput experiment...")

	for i, goroutines := range cfg.Goroutines {
		agent := config.AgentConfig{
			ID:   i + 1,
			Name: fmt.Sprintf("mcts-%dg", goroutines),
			Kind: config.KindMCTS,
			SearchConfig: config.SearchConfig{
				SimulationCount:     cfg.MaxSimulations,
				ExplorationConstant: config.DefaultSearch().ExplorationConstant,
				TimeLimitMillis:     cfg.TimeLimitMillis,
				Goroutines:          goroutines,
				Rollout:             cfg.Rollout,
			},
		}
		agents = append(agents, agent)

		log.Info().Msgf("starting matchup for agent=%+v...", agent)

		arena, err := NewArena(config.ArenaConfig{
			Games:   cfg.Games,
			Workers: 1,
			Seed:    seed + uint64(i),
			Agents:  []config.AgentConfig{agent, agent},
		})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		games, moves, _, err := arena.Run(ctx)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("%d goroutines: %w", goroutines, err)
		}
		gameRecords = append(gameRecords, games...)
		moveRecords = append(moveRecords, moves...)

		result := measure(goroutines, moves)
		results = append(results, result)
		log.Info().Msgf("completed matchup: %d goroutines ran %.0f simulations per second", goroutines, result.PerSecond())
	}

	log.Info().Msg("completed throughput experiment")
	return agents, gameRecords, moveRecords, results, nil
}

func measure(goroutines int, moves []metrics.MoveRecord) Throughput {
	t := Throughput{Goroutines: goroutines}
	for _, move := range moves {
		t.Moves++
		t.Simulations += move.Simulations
		t.Searching += move.Duration
	}
	return t
}
