package display

import (
	"bytes"
	"connectfour/game"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTerminalRender(t *testing.T) {
	t.Run("draws the grid top row first with column numbers", func(t *testing.T) {
		var buf bytes.Buffer
		term := NewTerminal(&buf, WithColor(false))
		b := game.NewBoard().Play(3, game.PlayerX).Play(3, game.PlayerO).Play(0, game.PlayerX)

		require.NoError(t, term.Render(b))

		border := "+---+---+---+---+---+---+---+"
		empty := "|   |   |   |   |   |   |   |"
		want := strings.Join([]string{
			"  0   1   2   3   4   5   6",
			border, empty, border, empty, border, empty, border, empty, border,
			"|   |   |   | O |   |   |   |", border,
			"| X |   |   | X |   |   |   |", border,
		}, "\n") + "\n"
		require.Equal(t, want, buf.String())
	})

	t.Run("output that is not a terminal is never cleared or coloured", func(t *testing.T) {
		var buf bytes.Buffer
		term := NewTerminal(&buf, WithColor(true), WithClearScreen(true))

		require.False(t, term.interactive)
		require.NoError(t, term.Render(game.NewBoard().Play(0, game.PlayerO)))
		require.NotContains(t, buf.String(), "\x1b")
	})

	t.Run("pauses before every frame", func(t *testing.T) {
		term := NewTerminal(&bytes.Buffer{}, WithDelay(2*time.Second))
		slept := []time.Duration{}
		term.sleep = func(d time.Duration) { slept = append(slept, d) }

		require.NoError(t, term.Render(game.NewBoard()))
		require.NoError(t, term.Render(game.NewBoard()))

		require.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
	})
}

func TestTerminalMessages(t *testing.T) {
	tests := []struct {
		name    string
		outcome game.Outcome
		want    string
	}{
		{"X wins", game.XWins, "Player X has won the game\n"},
		{"O wins", game.OWins, "Player O has won the game\n"},
		{"draw", game.Draw, "Game Over, It is a Draw\n"},
		{"game in progress", game.InProgress, ""},
	}
	for _, tt := range tests {
		t.Run("announces "+tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewTerminal(&buf).Announce(tt.outcome))
			require.Equal(t, tt.want, buf.String())
		})
	}

	t.Run("reports moves", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTerminal(&buf).Moved(game.PlayerO, 4))
		require.Equal(t, "Player O chooses column 4.\n", buf.String())
	})

	t.Run("discard renders nothing", func(t *testing.T) {
		var r Renderer = Discard{}
		require.NoError(t, r.Render(game.NewBoard()))
		require.NoError(t, r.Moved(game.PlayerX, 0))
		require.NoError(t, r.Announce(game.Draw))
	})
}
