package game

// Player identifies the owner of a disc. None marks an empty cell.
type Player uint8

const (
	None Player = iota
	PlayerX
	PlayerO
)

// Opponent returns the other player, or None for None.
func (p Player) Opponent() Player {
	switch p {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

func (p Player) Valid() bool {
	return p == PlayerX || p == PlayerO
}

func (p Player) String() string {
	switch p {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "."
	}
}

// Outcome of a board position.
type Outcome uint8

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

// WinFor returns the winning outcome for p.
func WinFor(p Player) Outcome {
	switch p {
	case PlayerX:
		return XWins
	case PlayerO:
		return OWins
	default:
		panic("no outcome for an empty cell")
	}
}

// Winner returns the winning player, or None for a draw or a running game.
func (o Outcome) Winner() Player {
	switch o {
	case XWins:
		return PlayerX
	case OWins:
		return PlayerO
	default:
		return None
	}
}

func (o Outcome) Terminal() bool {
	return o != InProgress
}

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}
