package game

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

type IllegalMoveReason int

const (
	ColumnOutOfRange IllegalMoveReason = iota
	ColumnFull
	NotAPlayer
)

func (r IllegalMoveReason) String() string {
	switch r {
	case ColumnOutOfRange:
		return "column out of range"
	case ColumnFull:
		return "column is full"
	case NotAPlayer:
		return "not a player"
	default:
		return "unknown"
	}
}

// IllegalMoveError is returned by Board.Apply. It matches ErrIllegalMove
// with errors.Is.
type IllegalMoveError struct {
	Column int
	Player Player
	Reason IllegalMoveReason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: column %d for player %s: %s", e.Column, e.Player, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}
