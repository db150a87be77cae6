package engine

import (
	"bytes"
	"connectfour/display"
	"connectfour/experiments/metrics"
	"connectfour/game"
	"connectfour/player"
	"connectfour/searcher"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scripted plays a fixed list of columns.
type scripted struct {
	columns []int
	calls   int
}

func (s *scripted) FindMove(_ context.Context, _ game.Board, _ game.Player) (int, metrics.SearchMetric, error) {
	if s.calls >= len(s.columns) {
		return -1, metrics.SearchMetric{}, errors.New("script exhausted")
	}
	column := s.columns[s.calls]
	s.calls++
	return column, metrics.SearchMetric{Simulations: s.calls}, nil
}

type recorder struct {
	frames   int
	moves    []int
	outcomes []game.Outcome
}

func (r *recorder) Render(game.Board) error {
	r.frames++
	return nil
}

func (r *recorder) Moved(_ game.Player, column int) error {
	r.moves = append(r.moves, column)
	return nil
}

func (r *recorder) Announce(outcome game.Outcome) error {
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func TestEngineRun(t *testing.T) {
	t.Run("X wins when the fourth disc lands in column 3", func(t *testing.T) {
		x := &scripted{columns: []int{3, 3, 3, 3}}
		o := &scripted{columns: []int{0, 1, 0}}
		r := &recorder{}
		e := New(x, o, WithRenderer(r))

		outcome, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.XWins, outcome)
		require.Equal(t, []int{3, 0, 3, 1, 3, 0, 3}, e.History())
		require.Equal(t, "X", gameMetric.StartingPlayer)
		require.Equal(t, "X", gameMetric.Winner)
		require.Equal(t, 7, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 7)
		require.Equal(t, "O", moveMetrics[1].Player)
		require.Equal(t, 2, moveMetrics[1].Step)
		require.Equal(t, 1, moveMetrics[1].Simulations)

		require.Equal(t, 8, r.frames, "Initial board and one frame per move")
		require.Equal(t, e.History(), r.moves)
		require.Equal(t, []game.Outcome{game.XWins}, r.outcomes)
	})

	t.Run("illegal move from a player aborts the game", func(t *testing.T) {
		x := &scripted{columns: []int{7}}
		o := &scripted{}
		e := New(x, o)

		_, _, _, err := e.Run(context.Background())

		require.ErrorIs(t, err, game.ErrIllegalMove)
		require.Equal(t, game.NewBoard(), e.Board())
	})

	t.Run("player error aborts the game", func(t *testing.T) {
		e := New(&scripted{}, &scripted{})

		_, _, _, err := e.Run(context.Background())
		require.ErrorContains(t, err, "script exhausted")
	})

	t.Run("finished position ends at once", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			"OOO....",
			"XXXX...",
		)
		e := New(&scripted{}, &scripted{}, WithBoard(b))

		outcome, _, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.XWins, outcome)
		require.Empty(t, moveMetrics)
	})

	t.Run("human against the search engine with terminal output", func(t *testing.T) {
		var out bytes.Buffer
		// Every cycle names each column once, so a legal one is always found
		input := strings.Repeat("0\n1\n2\n3\n4\n5\n6\n", game.Rows*game.Columns)
		human := player.NewHuman(strings.NewReader(input), &out)
		ai, err := player.NewMCTS(searcher.WithSimulations(200), searcher.WithSeed(2))
		require.NoError(t, err)
		e := New(human, ai, WithRenderer(display.NewTerminal(&out, display.WithColor(false))))

		outcome, _, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, outcome.Terminal())
		require.Contains(t, out.String(), "Player O chooses column")
		require.Contains(t, out.String(), "+---+---+---+---+---+---+---+")
	})
}

func TestEnginePlay(t *testing.T) {
	t.Run("players alternate and the outcome follows each move", func(t *testing.T) {
		e := New(&scripted{}, &scripted{})
		require.Equal(t, game.PlayerX, e.Turn())

		require.NoError(t, e.Play(2))
		require.Equal(t, game.PlayerO, e.Turn())
		require.Equal(t, game.PlayerX, e.Board().At(0, 2))
		require.Equal(t, game.InProgress, e.Outcome())
	})

	t.Run("illegal move leaves the game unchanged", func(t *testing.T) {
		e := New(&scripted{}, &scripted{})

		err := e.Play(-1)

		require.ErrorIs(t, err, game.ErrIllegalMove)
		require.Equal(t, game.PlayerX, e.Turn())
		require.Empty(t, e.History())
	})

	t.Run("moves after the end are rejected", func(t *testing.T) {
		e := New(&scripted{}, &scripted{})
		for _, col := range []int{0, 1, 0, 1, 0, 1, 0} {
			require.NoError(t, e.Play(col))
		}
		require.Equal(t, game.XWins, e.Outcome())

		require.ErrorIs(t, e.Play(2), ErrGameOver)
	})

	t.Run("engine needs two players", func(t *testing.T) {
		require.Panics(t, func() { New(nil, &scripted{}) })
	})
}
