package game

const (
	Rows    = 6
	Columns = 7
	Connect = 4 // Discs in a line needed to win
)

// Board is a 6x7 Connect Four grid. Row 0 is the bottom row.
//
// Board is a value type: Apply returns a modified copy and never touches the
// receiver, so boards can be shared freely between search branches and
// compared with ==.
type Board struct {
	cells   [Rows][Columns]Player
	heights [Columns]uint8
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// At returns the disc at row (0 is the bottom) and column.
func (b Board) At(row, column int) Player {
	return b.cells[row][column]
}

// Height returns the number of discs in column.
func (b Board) Height(column int) int {
	return int(b.heights[column])
}

// Moves returns the number of discs on the board.
func (b Board) Moves() int {
	n := 0
	for _, h := range b.heights {
		n += int(h)
	}
	return n
}

// Full reports whether every column is full.
func (b Board) Full() bool {
	return b.Moves() == Rows*Columns
}

// NextPlayer infers the player to move from the disc counts. X moves first.
func (b Board) NextPlayer() Player {
	if b.Moves()%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// LegalMoves returns the columns that are not full in ascending order.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, Columns)
	for col, h := range b.heights {
		if h < Rows {
			moves = append(moves, col)
		}
	}
	return moves
}

// IsLegal reports whether column can take another disc.
func (b Board) IsLegal(column int) bool {
	return column >= 0 && column < Columns && b.heights[column] < Rows
}

// Apply drops a disc for p into column and returns the resulting board.
// The receiver is left unchanged. The error is an *IllegalMoveError.
func (b Board) Apply(column int, p Player) (Board, error) {
	if column < 0 || column >= Columns {
		return b, &IllegalMoveError{Column: column, Player: p, Reason: ColumnOutOfRange}
	}
	if b.heights[column] >= Rows {
		return b, &IllegalMoveError{Column: column, Player: p, Reason: ColumnFull}
	}
	if !p.Valid() {
		return b, &IllegalMoveError{Column: column, Player: p, Reason: NotAPlayer}
	}

	b.cells[b.heights[column]][column] = p
	b.heights[column]++
	return b, nil
}

// Play is Apply for moves taken from LegalMoves. It panics on an illegal move.
func (b Board) Play(column int, p Player) Board {
	next, err := b.Apply(column, p)
	if err != nil {
		panic(err)
	}
	return next
}
