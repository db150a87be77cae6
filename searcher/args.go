package searcher

import (
	"math"
	"time"
)

// Hyperparameters for MCTS

const DefaultSimulations = 1000

const DefaultExplorationConstant = math.Sqrt2

// Rewards are credited to the player who moved into a node
const (
	Win  = 1.0
	Loss = -Win
	Draw = 0.0
)

// Reused roots are searched among the previous root's children and
// grandchildren, i.e. after our move and the opponent's reply.
const maxReuseDepth = 2

// SeedGenerator seeds searchers created without WithSeed.
var SeedGenerator = func() uint64 {
	return uint64(time.Now().UnixNano())
}
