package player

import (
	"connectfour/experiments/metrics"
	"connectfour/game"
	"connectfour/searcher"
	"context"
	"fmt"

	"golang.org/x/exp/rand"
)

// Player picks a column for p on board. The board is in progress when
// FindMove is called. Players that do not search return a zero metric.
type Player interface {
	FindMove(ctx context.Context, board game.Board, p game.Player) (int, metrics.SearchMetric, error)
}

// MCTS plays the move found by a Monte Carlo Tree Search.
type MCTS struct {
	searcher *searcher.MCTS
}

func NewMCTS(options ...searcher.Option) (*MCTS, error) {
	s, err := searcher.NewMCTS(options...)
	if err != nil {
		return nil, err
	}
	return &MCTS{searcher: s}, nil
}

func (m *MCTS) FindMove(ctx context.Context, board game.Board, p game.Player) (int, metrics.SearchMetric, error) {
	result, err := m.searcher.Search(ctx, board, p)
	if err != nil {
		return -1, metrics.SearchMetric{}, err
	}
	return result.Move, result.Metric, nil
}

// Random plays a uniformly random legal move.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) FindMove(_ context.Context, board game.Board, p game.Player) (int, metrics.SearchMetric, error) {
	if outcome := board.Evaluate(); outcome.Terminal() {
		return -1, metrics.SearchMetric{}, fmt.Errorf("%w: game is over (%s)", searcher.ErrNoLegalMove, outcome)
	}
	moves := board.LegalMoves()
	return moves[r.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}
