package searcher

import (
	"connectfour/game"
	"math"
)

// ucb1 scores the children of one parent. The parent's share of the
// exploration term is computed once.
type ucb1 struct {
	spread float64 // c^2 * ln(parent visits)
}

func newUCB1(cSquared float64, parentVisits int) ucb1 {
	return ucb1{spread: cSquared * math.Log(float64(parentVisits))}
}

// score is rewards/visits + c*sqrt(ln(N)/visits). visits must be positive.
func (u ucb1) score(rewards float64, visits int) float64 {
	n := float64(visits)
	return rewards/n + math.Sqrt(u.spread/n)
}

// reward scores an outcome for the player who moved into a node.
func reward(winner, mover game.Player) float64 {
	if winner == game.None {
		return Draw
	}
	if winner == mover {
		return Win
	}
	return Loss
}
