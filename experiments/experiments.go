package experiments

import (
	"connectfour/config"
	"connectfour/engine"
	"connectfour/experiments/metrics"
	"connectfour/game"
	"connectfour/player"
	"connectfour/searcher"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Arena plays a number of games between two agents. The agents take turns
// at moving first.
type Arena struct {
	agents  [2]config.AgentConfig
	games   int
	workers int
	seed    uint64
}

// Summary counts results per agent, in the order of the arena's agents.
type Summary struct {
	Games int
	Wins  [2]int
	Draws int
}

func NewArena(cfg config.ArenaConfig) (*Arena, error) {
	if len(cfg.Agents) != 2 {
		return nil, fmt.Errorf("arena needs exactly two agents, got %d", len(cfg.Agents))
	}
	if cfg.Games < 0 || cfg.Workers < 1 {
		return nil, fmt.Errorf("arena needs games >= 0 and workers >= 1, got %d and %d", cfg.Games, cfg.Workers)
	}
	return &Arena{
		agents:  [2]config.AgentConfig{cfg.Agents[0], cfg.Agents[1]},
		games:   cfg.Games,
		workers: cfg.Workers,
		seed:    cfg.Seed,
	}, nil
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveRecord
	winner int // Index into the arena's agents, -1 for a draw
}

// Run plays every game and returns the records in game order.
func (a *Arena) Run(ctx context.Context) ([]metrics.GameRecord, []metrics.MoveRecord, Summary, error) {
	results := make([]gameResult, a.games)
	var completed atomic.Int32

	log.Info().Msgf("starting %d games between %s and %s with %d workers", a.games, a.agents[0].Name, a.agents[1].Name, a.workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := 0; i < a.games; i++ {
		g.Go(func() error {
			result, err := a.playGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = result

			log.Info().Msgf("completed game %d of %d (%d done) with winner: %s",
				i+1, a.games, completed.Add(1), winnerName(a.agents, result.winner))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, Summary{}, err
	}

	summary := Summary{Games: a.games}
	gameRecords := make([]metrics.GameRecord, 0, a.games)
	moveRecords := []metrics.MoveRecord{}
	for _, result := range results {
		gameRecords = append(gameRecords, result.record)
		moveRecords = append(moveRecords, result.moves...)
		if result.winner < 0 {
			summary.Draws++
		} else {
			summary.Wins[result.winner]++
		}
	}

	log.Info().Msgf("completed %d games: %s won %d, %s won %d, %d draws",
		summary.Games, a.agents[0].Name, summary.Wins[0], a.agents[1].Name, summary.Wins[1], summary.Draws)
	return gameRecords, moveRecords, summary, nil
}

func (a *Arena) playGame(ctx context.Context, index int) (gameResult, error) {
	xi := index % 2 // Agents alternate moving first
	oi := 1 - xi

	x, err := newPlayer(a.agents[xi], a.seedFor(index, xi))
	if err != nil {
		return gameResult{}, err
	}
	o, err := newPlayer(a.agents[oi], a.seedFor(index, oi))
	if err != nil {
		return gameResult{}, err
	}

	outcome, gameMetric, moveMetrics, err := engine.New(x, o).Run(ctx)
	if err != nil {
		return gameResult{}, err
	}

	id := uuid.NewString()
	result := gameResult{
		record: metrics.GameRecord{
			ID:         id,
			Index:      index,
			AgentX:     a.agents[xi].ID,
			AgentO:     a.agents[oi].ID,
			GameMetric: gameMetric,
		},
		moves:  make([]metrics.MoveRecord, 0, len(moveMetrics)),
		winner: -1,
	}
	for _, mm := range moveMetrics {
		result.moves = append(result.moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
	}
	switch outcome.Winner() {
	case game.PlayerX:
		result.winner = xi
	case game.PlayerO:
		result.winner = oi
	}
	return result, nil
}

// seedFor derives a distinct seed for every game and side so that results do
// not depend on worker scheduling.
func (a *Arena) seedFor(index, side int) uint64 {
	base := a.seed
	if s := a.agents[side].Seed; s != 0 {
		base = s
	}
	return base*1_000_003 + uint64(index)*2 + uint64(side) + 1
}

func newPlayer(agent config.AgentConfig, seed uint64) (player.Player, error) {
	switch agent.Kind {
	case config.KindRandom:
		return player.NewRandom(seed), nil
	case config.KindMCTS:
		options := append(agent.Options(), searcher.WithSeed(seed), searcher.WithMetrics())
		return player.NewMCTS(options...)
	default:
		return nil, fmt.Errorf("unknown agent kind %q", agent.Kind)
	}
}

func winnerName(agents [2]config.AgentConfig, winner int) string {
	if winner < 0 {
		return "draw"
	}
	return agents[winner].Name
}

// Store writes the experiment records in the requested formats.
func Store(writer *metrics.Writer, formats []string, agents []config.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	configs := make([]metrics.AgentConfig, 0, len(agents))
	for _, agent := range agents {
		configs = append(configs, agent.Metrics())
	}

	for _, format := range formats {
		switch format {
		case config.FormatCSV:
			if err := writer.WriteAgentConfigs(configs); err != nil {
				return fmt.Errorf("failed to store agent configs: %w", err)
			}
			if err := writer.WriteGameRecords(games); err != nil {
				return fmt.Errorf("failed to write game records: %w", err)
			}
			if err := writer.WriteMoveRecords(moves); err != nil {
				return fmt.Errorf("failed to write move records: %w", err)
			}
		case config.FormatParquet:
			if err := writer.WriteGameParquet(games); err != nil {
				return fmt.Errorf("failed to write game records: %w", err)
			}
			if err := writer.WriteMoveParquet(moves); err != nil {
				return fmt.Errorf("failed to write move records: %w", err)
			}
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		log.Info().Msgf("stored %s records in %s", format, writer.Dir())
	}
	return nil
}
