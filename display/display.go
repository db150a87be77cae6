// Package display renders games for people. The game loop only depends on
// the Renderer interface.
package display

import (
	"connectfour/game"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type Renderer interface {
	Render(board game.Board) error
	Moved(p game.Player, column int) error
	Announce(outcome game.Outcome) error
}

// Discard renders nothing.
type Discard struct{}

func (Discard) Render(game.Board) error      { return nil }
func (Discard) Moved(game.Player, int) error { return nil }
func (Discard) Announce(game.Outcome) error  { return nil }

type Option func(t *Terminal)

// WithColor toggles coloured discs. Colours are only used when the output
// supports them.
func WithColor(color bool) Option {
	return func(t *Terminal) {
		t.color = color
	}
}

// WithDelay pauses before every frame so each position stays readable.
func WithDelay(delay time.Duration) Option {
	return func(t *Terminal) {
		t.delay = delay
	}
}

// WithClearScreen clears an interactive terminal before every frame.
func WithClearScreen(clear bool) Option {
	return func(t *Terminal) {
		t.clear = clear
	}
}

// Terminal draws the board as a text grid with column numbers on top.
type Terminal struct {
	out         *termenv.Output
	interactive bool
	color       bool
	clear       bool
	delay       time.Duration
	sleep       func(time.Duration)
}

func NewTerminal(w io.Writer, options ...Option) *Terminal {
	t := &Terminal{
		color:       true,
		clear:       true,
		interactive: isTerminal(w),
		sleep:       time.Sleep,
	}
	for _, option := range options {
		option(t)
	}

	var outputOptions []termenv.OutputOption
	if !t.color || !t.interactive {
		outputOptions = append(outputOptions, termenv.WithProfile(termenv.Ascii))
	}
	t.out = termenv.NewOutput(w, outputOptions...)
	return t
}

// isTerminal reports whether w is a terminal, as opposed to a pipe, a file or
// a notebook cell capturing output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Terminal) Render(board game.Board) error {
	if t.delay > 0 {
		t.sleep(t.delay)
	}
	if t.clear && t.interactive {
		t.out.ClearScreen()
	}

	_, err := io.WriteString(t.out, t.frame(board))
	return err
}

func (t *Terminal) frame(board game.Board) string {
	var sb strings.Builder
	border := "+" + strings.Repeat("---+", game.Columns) + "\n"

	numbers := make([]string, game.Columns)
	for col := range numbers {
		numbers[col] = fmt.Sprint(col)
	}
	sb.WriteString("  " + strings.Join(numbers, "   ") + "\n")
	sb.WriteString(border)

	for row := game.Rows - 1; row >= 0; row-- {
		cells := make([]string, game.Columns)
		for col := range cells {
			cells[col] = t.disc(board.At(row, col))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		sb.WriteString(border)
	}
	return sb.String()
}

func (t *Terminal) disc(p game.Player) string {
	switch p {
	case game.PlayerX:
		return t.out.String("X").Foreground(t.out.Color("1")).Bold().String()
	case game.PlayerO:
		return t.out.String("O").Foreground(t.out.Color("3")).Bold().String()
	default:
		return " "
	}
}

func (t *Terminal) Moved(p game.Player, column int) error {
	_, err := fmt.Fprintf(t.out, "Player %s chooses column %d.\n", p, column)
	return err
}

func (t *Terminal) Announce(outcome game.Outcome) error {
	var msg string
	switch outcome {
	case game.Draw:
		msg = "Game Over, It is a Draw"
	case game.XWins, game.OWins:
		msg = fmt.Sprintf("Player %s has won the game", outcome.Winner())
	default:
		return nil
	}
	_, err := fmt.Fprintln(t.out, msg)
	return err
}
