package engine

import (
	"connectfour/display"
	"connectfour/game"
	"connectfour/player"
	"errors"
)

var ErrGameOver = errors.New("game is over")

type Option func(e *Engine)

// WithRenderer shows every position and move. Games are not rendered by
// default.
func WithRenderer(r display.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithBoard starts from a given position instead of an empty board.
func WithBoard(board game.Board) Option {
	return func(e *Engine) {
		e.board = board
	}
}

// Engine alternates two players on one board. X moves first on an empty
// board.
type Engine struct {
	players  [2]player.Player
	renderer display.Renderer
	board    game.Board
	turn     game.Player
	outcome  game.Outcome
	history  []int
}

func New(x, o player.Player, options ...Option) *Engine {
	if x == nil || o == nil {
		panic("engine needs two players")
	}

	e := &Engine{
		players:  [2]player.Player{x, o},
		renderer: display.Discard{},
		board:    game.NewBoard(),
	}
	for _, option := range options {
		option(e)
	}
	e.turn = e.board.NextPlayer()
	e.outcome = e.board.Evaluate()
	return e
}

func (e *Engine) Board() game.Board {
	return e.board
}

// Turn returns the player to move.
func (e *Engine) Turn() game.Player {
	return e.turn
}

func (e *Engine) Outcome() game.Outcome {
	return e.outcome
}

// History returns the columns played through this engine.
func (e *Engine) History() []int {
	return append([]int(nil), e.history...)
}

// Play drops a disc for the player to move. Illegal moves are returned as
// *game.IllegalMoveError and leave the game unchanged.
func (e *Engine) Play(column int) error {
	if e.outcome.Terminal() {
		return ErrGameOver
	}

	next, err := e.board.Apply(column, e.turn)
	if err != nil {
		return err
	}

	e.board = next
	e.history = append(e.history, column)
	e.outcome = next.EvaluateMove(column)
	e.turn = e.turn.Opponent()
	return nil
}

func (e *Engine) current() player.Player {
	if e.turn == game.PlayerX {
		return e.players[0]
	}
	return e.players[1]
}
