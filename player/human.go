package player

import (
	"bufio"
	"connectfour/experiments/metrics"
	"connectfour/game"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

var ErrNoInput = errors.New("no more input")

// Human reads columns from a line-based input and asks again until the
// column is legal. Lines are read in the background so that a cancelled
// context ends a pending prompt.
type Human struct {
	in    *bufio.Scanner
	out   io.Writer
	start sync.Once
	lines chan string
	err   error // Read error, set before lines is closed
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{
		in:    bufio.NewScanner(in),
		out:   out,
		lines: make(chan string),
	}
}

func (h *Human) FindMove(ctx context.Context, board game.Board, p game.Player) (int, metrics.SearchMetric, error) {
	if err := ctx.Err(); err != nil {
		return -1, metrics.SearchMetric{}, err
	}
	fmt.Fprintf(h.out, "It is Player %s (Human)'s turn.\n", p)

	for {
		fmt.Fprintf(h.out, "Hi player %s, which column do you want to place your disc? ", p)
		line, err := h.readLine(ctx)
		if err != nil {
			return -1, metrics.SearchMetric{}, err
		}

		column, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(h.out, "Sorry, only integers allowed.")
			continue
		}

		if _, err := board.Apply(column, p); err != nil {
			var illegal *game.IllegalMoveError
			if errors.As(err, &illegal) && illegal.Reason == game.ColumnFull {
				fmt.Fprintln(h.out, "Sorry, that column is filled. Please choose a different column.")
			} else {
				fmt.Fprintf(h.out, "Sorry, choose a number between 0 and %d.\n", game.Columns-1)
			}
			continue
		}

		// Rows are counted from the top, as they are drawn
		row := game.Rows - 1 - board.Height(column)
		fmt.Fprintf(h.out, "Thanks, you have placed your disc at (Row %d, Column %d)\n", row, column)
		return column, metrics.SearchMetric{}, nil
	}
}

// readLine waits for the next input line or for ctx to be done. A line that
// arrives together with the cancellation is not used.
func (h *Human) readLine(ctx context.Context) (string, error) {
	h.start.Do(func() {
		go h.scan()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-h.lines:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !ok {
			if h.err != nil {
				return "", fmt.Errorf("failed to read move: %w", h.err)
			}
			return "", ErrNoInput
		}
		return line, nil
	}
}

func (h *Human) scan() {
	for h.in.Scan() {
		h.lines <- h.in.Text()
	}
	h.err = h.in.Err()
	close(h.lines)
}
