package searcher

import (
	"connectfour/game"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type fixedPolicy struct {
	column int
}

func (p fixedPolicy) SelectRolloutMove(game.Board, game.Player, []int, *rand.Rand) int {
	return p.column
}

func TestRollout(t *testing.T) {
	t.Run("random playouts always reach a terminal outcome", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 500; i++ {
			b := game.NewBoard()
			outcome := rollout(b, game.PlayerX, b.Evaluate(), UniformRollout{}, rng)
			require.True(t, outcome.Terminal())
		}
	})

	t.Run("terminal position is returned without playing", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			"OOO....",
			"XXXX...",
		)
		outcome := rollout(b, game.PlayerO, b.Evaluate(), fixedPolicy{column: -1}, nil)
		require.Equal(t, game.XWins, outcome)
	})

	t.Run("policy choosing an illegal column panics", func(t *testing.T) {
		b := game.NewBoard()
		require.Panics(t, func() {
			rollout(b, game.PlayerX, b.Evaluate(), fixedPolicy{column: game.Columns}, nil)
		})
		require.Panics(t, func() {
			// Column 0 fills up after six plies
			rollout(b, game.PlayerX, b.Evaluate(), fixedPolicy{column: 0}, nil)
		})
	})
}

func TestTacticalRollout(t *testing.T) {
	policy := TacticalRollout{}
	rng := rand.New(rand.NewSource(5))

	t.Run("takes an immediate win", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			"......O",
			"X.....O",
			"X.X.X.O",
		)
		require.Equal(t, 6, policy.SelectRolloutMove(b, game.PlayerO, b.LegalMoves(), rng))
	})

	t.Run("blocks the opponent's immediate win", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			"......O",
			"XXX...O",
		)
		require.Equal(t, 3, policy.SelectRolloutMove(b, game.PlayerO, b.LegalMoves(), rng))
	})

	t.Run("prefers winning over blocking", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			"......O",
			"......O",
			"XXX...O",
		)
		require.Equal(t, 6, policy.SelectRolloutMove(b, game.PlayerO, b.LegalMoves(), rng))
	})

	t.Run("plays a legal random move otherwise", func(t *testing.T) {
		b := game.NewBoard().Play(3, game.PlayerX)
		moves := b.LegalMoves()
		for i := 0; i < 50; i++ {
			require.Contains(t, moves, policy.SelectRolloutMove(b, game.PlayerO, moves, rng))
		}
	})
}
