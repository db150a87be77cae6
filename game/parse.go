package game

import (
	"fmt"
	"strings"
)

// ParseBoard reads a board written top row first, one string per row, using
// 'X', 'O' and '.' for cells.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, fmt.Errorf("expected %d rows, got %d", Rows, len(rows))
	}
	for i, row := range rows {
		if len(row) != Columns {
			return b, fmt.Errorf("row %d: expected %d cells, got %d", i, Columns, len(row))
		}
	}

	for col := 0; col < Columns; col++ {
		empty := false
		for row := 0; row < Rows; row++ {
			var p Player
			switch ch := rows[Rows-1-row][col]; ch {
			case '.':
				empty = true
				continue
			case 'X', 'x':
				p = PlayerX
			case 'O', 'o':
				p = PlayerO
			default:
				return Board{}, fmt.Errorf("unknown cell %q at row %d column %d", ch, row, col)
			}
			if empty {
				return Board{}, fmt.Errorf("floating disc at row %d column %d", row, col)
			}
			b.cells[row][col] = p
			b.heights[col]++
		}
	}
	return b, nil
}

// MustParseBoard is ParseBoard for fixed positions. It panics on error.
func MustParseBoard(rows ...string) Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// String writes the board in the ParseBoard format.
func (b Board) String() string {
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Columns; col++ {
			sb.WriteString(b.cells[row][col].String())
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
