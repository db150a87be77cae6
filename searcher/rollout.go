package searcher

import (
	"connectfour/game"
	"fmt"

	"golang.org/x/exp/rand"
)

// RolloutPolicy picks the next move of a simulated game. moves is the
// non-empty, ascending list of legal columns and the result must be one of
// them. Implementations must not keep state between calls: rollouts may run
// on several goroutines, each with its own rng.
type RolloutPolicy interface {
	SelectRolloutMove(board game.Board, player game.Player, moves []int, rng *rand.Rand) int
}

// UniformRollout plays uniformly random legal moves.
type UniformRollout struct{}

func (UniformRollout) SelectRolloutMove(_ game.Board, _ game.Player, moves []int, rng *rand.Rand) int {
	return moves[rng.Intn(len(moves))]
}

// TacticalRollout takes an immediate win, otherwise blocks the opponent's
// immediate win, otherwise plays a random move.
type TacticalRollout struct{}

func (TacticalRollout) SelectRolloutMove(board game.Board, player game.Player, moves []int, rng *rand.Rand) int {
	if col, ok := winningMove(board, player, moves); ok {
		return col
	}
	if col, ok := winningMove(board, player.Opponent(), moves); ok {
		return col
	}
	return moves[rng.Intn(len(moves))]
}

func winningMove(board game.Board, player game.Player, moves []int) (int, bool) {
	win := game.WinFor(player)
	for _, col := range moves {
		if board.Play(col, player).EvaluateMove(col) == win {
			return col, true
		}
	}
	return -1, false
}

// rollout plays the game out from board, where player is to move and
// outcome is the board's current outcome.
func rollout(board game.Board, player game.Player, outcome game.Outcome, policy RolloutPolicy, rng *rand.Rand) game.Outcome {
	for ply := 0; !outcome.Terminal(); ply++ {
		if ply >= game.Rows*game.Columns {
			panic("rollout did not reach a terminal position")
		}

		moves := board.LegalMoves()
		col := policy.SelectRolloutMove(board, player, moves, rng)
		next, err := board.Apply(col, player)
		if err != nil {
			panic(fmt.Sprintf("rollout policy chose an illegal move: %v", err))
		}

		board = next
		outcome = board.EvaluateMove(col)
		player = player.Opponent()
	}
	return outcome
}
