package metrics

import "time"

// AgentConfig describes one side of an arena matchup.
type AgentConfig struct {
	ID          int
	Name        string
	Kind        string // "mcts" or "random"
	Simulations int
	TimeLimit   time.Duration
	Exploration float64
	Goroutines  int
	Rollout     string
	TreeReuse   bool
}

type GameRecord struct {
	ID     string // UUID
	Index  int    // Position in the experiment
	AgentX int    // AgentConfig.ID playing X
	AgentO int    // AgentConfig.ID playing O
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}
