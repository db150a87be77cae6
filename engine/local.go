package engine

import (
	"connectfour/experiments/metrics"
	"connectfour/game"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Run asks the players for moves until the game is over.
func (e *Engine) Run(ctx context.Context) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.turn.String(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	log.Info().Msgf("player %s is starting", e.turn)

	if err := e.renderer.Render(e.board); err != nil {
		return e.outcome, gameMetric, moveMetrics, fmt.Errorf("failed to render board: %w", err)
	}

	for !e.outcome.Terminal() {
		p := e.turn
		column, searchMetric, err := e.current().FindMove(ctx, e.board, p)
		if err != nil {
			return e.outcome, gameMetric, moveMetrics, fmt.Errorf("player %s failed to find a move: %w", p, err)
		}
		if err := e.Play(column); err != nil {
			return e.outcome, gameMetric, moveMetrics, fmt.Errorf("player %s: %w", p, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         len(e.history),
			Player:       p.String(),
			Column:       column,
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("player %s played column %d", p, column)

		if err := e.renderer.Moved(p, column); err != nil {
			return e.outcome, gameMetric, moveMetrics, fmt.Errorf("failed to render move: %w", err)
		}
		if err := e.renderer.Render(e.board); err != nil {
			return e.outcome, gameMetric, moveMetrics, fmt.Errorf("failed to render board: %w", err)
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(e.history)
	if winner := e.outcome.Winner(); winner != game.None {
		gameMetric.Winner = winner.String()
	}

	log.Info().Msgf("game over after %d moves: %s", gameMetric.TotalMoves, e.outcome)

	if err := e.renderer.Announce(e.outcome); err != nil {
		return e.outcome, gameMetric, moveMetrics, fmt.Errorf("failed to announce outcome: %w", err)
	}
	return e.outcome, gameMetric, moveMetrics, nil
}
