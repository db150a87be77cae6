package game

// Line directions as (row, column) steps: horizontal, vertical and both
// diagonals. Their opposites are covered by scanning every cell.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Evaluate scans the whole board. A line of four or more same-player discs
// wins; the first line found in bottom-up, left-to-right order decides when
// a constructed board holds lines for both players.
func (b Board) Evaluate() Outcome {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			p := b.cells[row][col]
			if p == None {
				continue
			}
			for _, d := range directions {
				if 1+b.count(row, col, d[0], d[1], p) >= Connect {
					return WinFor(p)
				}
			}
		}
	}
	if b.Full() {
		return Draw
	}
	return InProgress
}

// EvaluateMove checks only the lines through the top disc of column, which
// must be the disc played last. On a board that was in progress before that
// disc it returns the same outcome as Evaluate.
func (b Board) EvaluateMove(column int) Outcome {
	h := int(b.heights[column])
	if h == 0 {
		panic("evaluating a move in an empty column")
	}
	row := h - 1
	p := b.cells[row][column]
	for _, d := range directions {
		n := 1 + b.count(row, column, d[0], d[1], p) + b.count(row, column, -d[0], -d[1], p)
		if n >= Connect {
			return WinFor(p)
		}
	}
	if b.Full() {
		return Draw
	}
	return InProgress
}

// count returns the number of consecutive p discs after (row, col) in the
// direction (dr, dc), not counting (row, col) itself.
func (b Board) count(row, col, dr, dc int, p Player) int {
	n := 0
	r, c := row+dr, col+dc
	for r >= 0 && r < Rows && c >= 0 && c < Columns && b.cells[r][c] == p {
		n++
		r += dr
		c += dc
	}
	return n
}
