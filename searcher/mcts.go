package searcher

import (
	"connectfour/experiments/metrics"
	"connectfour/game"
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS searches for the best move with Monte Carlo Tree Search. A single
// MCTS must not run concurrent searches.
type MCTS struct {
	simulations    int
	simulationsSet bool
	exploration    float64
	timeLimit      time.Duration
	timeLimitSet   bool
	goroutines     int
	rollout        RolloutPolicy
	reuse          bool
	seed           uint64
	rng            *rand.Rand
	tree           *tree // Previous tree, kept only with tree reuse
	metrics        metrics.Collector
}

// ChildStat holds the statistics of one root child after a search. Rewards
// are from the perspective of the searching player.
type ChildStat struct {
	Column  int
	Visits  int
	Rewards float64
}

type Result struct {
	Move        int
	Simulations int // Simulations run by this search
	StopReason  StopReason
	Children    []ChildStat
	Metric      metrics.SearchMetric
}

// WithSimulations sets the simulation budget. It must be positive.
func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		m.simulations = simulations
		m.simulationsSet = true
	}
}

// WithExplorationConstant sets c in the UCB1 formula. It must be positive.
func WithExplorationConstant(c float64) Option {
	return func(m *MCTS) {
		m.exploration = c
	}
}

// WithTimeLimit stops a search once the limit has passed, even when the
// simulation budget is not used up. It must be positive. Without
// WithSimulations the time limit is the only budget.
func WithTimeLimit(limit time.Duration) Option {
	return func(m *MCTS) {
		m.timeLimit = limit
		m.timeLimitSet = true
	}
}

// WithGoroutines runs that many rollouts in parallel from each expanded node.
func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		m.goroutines = goroutines
	}
}

func WithRolloutPolicy(policy RolloutPolicy) Option {
	return func(m *MCTS) {
		m.rollout = policy
	}
}

// WithSeed makes searches reproducible for a fixed configuration.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// WithTreeReuse keeps the tree between searches and starts the next search
// from the node matching the new position, if one was expanded.
func WithTreeReuse() Option {
	return func(m *MCTS) {
		m.reuse = true
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) (*MCTS, error) {
	m := &MCTS{ // Default values
		simulations: DefaultSimulations,
		exploration: DefaultExplorationConstant,
		goroutines:  1,
		rollout:     UniformRollout{},
		seed:        SeedGenerator(),
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.timeLimitSet && !m.simulationsSet {
		m.simulations = math.MaxInt
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.rng = rand.New(rand.NewSource(m.seed))
	return m, nil
}

func (m *MCTS) validate() error {
	if m.simulations <= 0 {
		return &InvalidConfigurationError{Field: "simulation_count", Value: m.simulations}
	}
	if m.exploration <= 0 || math.IsNaN(m.exploration) || math.IsInf(m.exploration, 0) {
		return &InvalidConfigurationError{Field: "exploration_constant", Value: m.exploration}
	}
	if m.timeLimitSet && m.timeLimit <= 0 {
		return &InvalidConfigurationError{Field: "time_limit", Value: m.timeLimit}
	}
	if m.goroutines < 1 {
		return &InvalidConfigurationError{Field: "goroutines", Value: m.goroutines}
	}
	if m.rollout == nil {
		return &InvalidConfigurationError{Field: "rollout", Value: nil}
	}
	return nil
}

func (m *MCTS) Goroutines() int {
	return m.goroutines
}

// ChooseMove creates a searcher from options and returns its move for
// player on board.
func ChooseMove(board game.Board, player game.Player, options ...Option) (int, error) {
	m, err := NewMCTS(options...)
	if err != nil {
		return -1, err
	}
	return m.ChooseMove(board, player)
}

func (m *MCTS) ChooseMove(board game.Board, player game.Player) (int, error) {
	result, err := m.Search(context.Background(), board, player)
	if err != nil {
		return -1, err
	}
	return result.Move, nil
}

// Search runs simulations from board with player to move until the budget,
// the time limit or ctx stops it, and returns the most visited move.
// The board must be in progress, otherwise ErrNoLegalMove is returned.
func (m *MCTS) Search(ctx context.Context, board game.Board, player game.Player) (Result, error) {
	if !player.Valid() {
		return Result{}, &InvalidConfigurationError{Field: "player", Value: player}
	}
	if outcome := board.Evaluate(); outcome.Terminal() {
		return Result{}, fmt.Errorf("%w: game is over (%s)", ErrNoLegalMove, outcome)
	}

	m.metrics.Start(m.goroutines)
	t := m.findRoot(board, player)
	cSquared := m.exploration * m.exploration
	limit := newLimiter(ctx, m.simulations, m.timeLimit)

	done := 0
	reason := limit.check(done)
	for reason == StopNone {
		leaf, depth := t.selectThenExpand(cSquared)
		m.metrics.AddDepth(depth)

		batch := min(m.goroutines, limit.remaining(done))
		for _, winner := range m.simulate(&t.nodes[leaf], batch) {
			t.backup(leaf, winner)
			m.metrics.AddSimulation()
		}

		done += batch
		reason = limit.check(done)
	}

	if done == 0 {
		return Result{}, ctx.Err()
	}

	best := t.bestChild()
	result := Result{
		Move:        t.nodes[best].move,
		Simulations: done,
		StopReason:  reason,
		Children:    t.childStats(),
		Metric:      m.metrics.Complete(t.size(), reason.String()),
	}

	if m.reuse {
		m.tree = t
	}

	log.Debug().
		Str("player", player.String()).
		Int("move", result.Move).
		Int("simulations", done).
		Int("tree_size", t.size()).
		Str("stop", reason.String()).
		Dur("elapsed", time.Since(limit.start)).
		Msg("search complete")

	return result, nil
}

// findRoot returns the tree to search. With tree reuse it is the subtree of
// the previous search holding board, otherwise a new tree.
func (m *MCTS) findRoot(board game.Board, player game.Player) *tree {
	if m.reuse && m.tree != nil {
		previous := m.tree
		m.tree = nil
		if h := previous.find(board, player, maxReuseDepth); h != nilHandle {
			m.metrics.SetTreeReused(true)
			return previous.subtree(h)
		}
		log.Debug().Msgf("no node of the previous tree (%d nodes) matches the position, starting a new tree", previous.size())
	}
	m.metrics.SetTreeReused(false)
	return newTree(board, player)
}

// simulate returns the winners of batch rollouts from n, game.None for a
// draw. Parallel rollouts get their own generators seeded in a fixed order
// so results do not depend on scheduling.
func (m *MCTS) simulate(n *node, batch int) []game.Player {
	winners := make([]game.Player, batch)
	if n.outcome.Terminal() {
		for i := range winners {
			winners[i] = n.outcome.Winner()
		}
		return winners
	}

	if batch == 1 {
		winners[0] = rollout(n.board, n.player, n.outcome, m.rollout, m.rng).Winner()
		return winners
	}

	seeds := make([]uint64, batch)
	for i := range seeds {
		seeds[i] = m.rng.Uint64()
	}

	board, player, outcome := n.board, n.player, n.outcome
	var wg sync.WaitGroup
	for i := 0; i < batch; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seeds[i]))
			winners[i] = rollout(board, player, outcome, m.rollout, rng).Winner()
		}(i)
	}
	wg.Wait()

	return winners
}

func (t *tree) childStats() []ChildStat {
	children := t.nodes[root].children
	stats := make([]ChildStat, 0, len(children))
	for _, c := range children {
		n := &t.nodes[c]
		stats = append(stats, ChildStat{Column: n.move, Visits: n.visits, Rewards: n.rewards})
	}
	return stats
}
