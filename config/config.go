// Package config loads the YAML settings of the game and the arena.
package config

import (
	"bytes"
	"connectfour/experiments/metrics"
	"connectfour/searcher"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Search     SearchConfig     `yaml:"search"`
	Game       GameConfig       `yaml:"game"`
	Arena      ArenaConfig      `yaml:"arena"`
	Throughput ThroughputConfig `yaml:"throughput"`
}

// SearchConfig holds the settings of one MCTS agent. A zero time limit means
// no limit. A zero simulation count together with a time limit leaves the
// time limit as the only budget.
type SearchConfig struct {
	SimulationCount     int     `yaml:"simulation_count"`
	ExplorationConstant float64 `yaml:"exploration_constant"`
	TimeLimitMillis     int     `yaml:"time_limit_millis"`
	Goroutines          int     `yaml:"goroutines"`
	Seed                uint64  `yaml:"seed"` // Zero picks a seed at startup
	Rollout             string  `yaml:"rollout"`
	TreeReuse           bool    `yaml:"tree_reuse"`
}

type GameConfig struct {
	HumanFirst  bool `yaml:"human_first"`
	Color       bool `yaml:"color"`
	ClearScreen bool `yaml:"clear_screen"`
	DelayMillis int  `yaml:"delay_millis"`
}

type AgentConfig struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"` // "mcts" or "random"
	SearchConfig `yaml:",inline"`
}

type ArenaConfig struct {
	Games   int           `yaml:"games"`
	Workers int           `yaml:"workers"`
	Seed    uint64        `yaml:"seed"`
	OutDir  string        `yaml:"out_dir"`
	Formats []string      `yaml:"formats"`
	Agents  []AgentConfig `yaml:"agents"`
}

// ThroughputConfig sets up the experiment that measures simulations per
// second for several goroutine counts. A zero MaxSimulations leaves the time limit
// as the only budget.
type ThroughputConfig struct {
	Goroutines      []int  `yaml:"goroutines"`
	TimeLimitMillis int    `yaml:"time_limit_millis"`
	MaxSimulations  int    `yaml:"max_simulations"`
	Games           int    `yaml:"games"` // Per goroutine count
	Rollout         string `yaml:"rollout"`
}

const (
	RolloutUniform  = "uniform"
	RolloutTactical = "tactical"

	KindMCTS   = "mcts"
	KindRandom = "random"

	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

func DefaultSearch() SearchConfig {
	return SearchConfig{
		SimulationCount:     searcher.DefaultSimulations,
		ExplorationConstant: searcher.DefaultExplorationConstant,
		Goroutines:          1,
		Rollout:             RolloutUniform,
	}
}

func Default() Config {
	return Config{
		LogLevel: "warn",
		Search:   DefaultSearch(),
		Game: GameConfig{
			HumanFirst:  true,
			Color:       true,
			ClearScreen: true,
			DelayMillis: 0,
		},
		Arena: ArenaConfig{
			Games:   20,
			Workers: 4,
			Seed:    1,
			OutDir:  "experiments",
			Formats: []string{FormatCSV, FormatParquet},
			Agents: []AgentConfig{
				{ID: 1, Name: "mcts-1000", Kind: KindMCTS, SearchConfig: DefaultSearch()},
				{ID: 2, Name: "random", Kind: KindRandom, SearchConfig: DefaultSearch()},
			},
		},
		Throughput: ThroughputConfig{
			Goroutines:      []int{1, 2, 4, 8},
			TimeLimitMillis: 50,
			MaxSimulations:  0,
			Games:           2,
			Rollout:         RolloutUniform,
		},
	}
}

// Load reads path on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	for i := range cfg.Arena.Agents {
		cfg.Arena.Agents[i].SearchConfig = cfg.Arena.Agents[i].SearchConfig.withDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings searcher options cannot check.
func (c Config) Validate() error {
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if c.Game.DelayMillis < 0 {
		return fmt.Errorf("game: delay_millis must not be negative, got %d", c.Game.DelayMillis)
	}
	if c.Arena.Games < 0 || c.Arena.Workers < 1 {
		return fmt.Errorf("arena: need games >= 0 and workers >= 1, got %d and %d", c.Arena.Games, c.Arena.Workers)
	}
	for _, format := range c.Arena.Formats {
		if format != FormatCSV && format != FormatParquet {
			return fmt.Errorf("arena: unknown format %q", format)
		}
	}
	if err := c.Throughput.validate(); err != nil {
		return fmt.Errorf("throughput: %w", err)
	}
	for _, agent := range c.Arena.Agents {
		switch agent.Kind {
		case KindMCTS:
			if err := agent.validate(); err != nil {
				return fmt.Errorf("arena agent %d: %w", agent.ID, err)
			}
		case KindRandom:
		default:
			return fmt.Errorf("arena agent %d: unknown kind %q", agent.ID, agent.Kind)
		}
	}
	return nil
}

func (t ThroughputConfig) validate() error {
	if t.Games < 0 {
		return fmt.Errorf("games must not be negative, got %d", t.Games)
	}
	if t.TimeLimitMillis <= 0 {
		return fmt.Errorf("time_limit_millis must be positive, got %d", t.TimeLimitMillis)
	}
	for _, goroutines := range t.Goroutines {
		search := SearchConfig{
			SimulationCount:     t.MaxSimulations,
			ExplorationConstant: DefaultSearch().ExplorationConstant,
			TimeLimitMillis:     t.TimeLimitMillis,
			Goroutines:          goroutines,
			Rollout:             t.Rollout,
		}
		if err := search.validate(); err != nil {
			return err
		}
	}
	return nil
}

// withDefaults fills unset agent settings. Unlike the top-level search
// section, list entries start from zero values.
func (s SearchConfig) withDefaults() SearchConfig {
	d := DefaultSearch()
	if s.SimulationCount == 0 && s.TimeLimitMillis == 0 {
		s.SimulationCount = d.SimulationCount
	}
	if s.ExplorationConstant == 0 {
		s.ExplorationConstant = d.ExplorationConstant
	}
	if s.Goroutines == 0 {
		s.Goroutines = d.Goroutines
	}
	if s.Rollout == "" {
		s.Rollout = d.Rollout
	}
	return s
}

func (s SearchConfig) validate() error {
	if _, err := s.rolloutPolicy(); err != nil {
		return err
	}
	// Build a searcher once so bad numbers fail at startup
	_, err := searcher.NewMCTS(s.Options()...)
	return err
}

func (s SearchConfig) rolloutPolicy() (searcher.RolloutPolicy, error) {
	switch s.Rollout {
	case RolloutUniform, "":
		return searcher.UniformRollout{}, nil
	case RolloutTactical:
		return searcher.TacticalRollout{}, nil
	default:
		return nil, fmt.Errorf("unknown rollout policy %q", s.Rollout)
	}
}

// Options maps the settings onto searcher options. Validation is left to
// searcher.NewMCTS.
func (s SearchConfig) Options() []searcher.Option {
	options := []searcher.Option{
		searcher.WithExplorationConstant(s.ExplorationConstant),
		searcher.WithGoroutines(s.Goroutines),
	}
	if s.SimulationCount != 0 || s.TimeLimitMillis == 0 {
		options = append(options, searcher.WithSimulations(s.SimulationCount))
	}
	if s.TimeLimitMillis != 0 {
		options = append(options, searcher.WithTimeLimit(time.Duration(s.TimeLimitMillis)*time.Millisecond))
	}
	if s.Seed != 0 {
		options = append(options, searcher.WithSeed(s.Seed))
	}
	if policy, err := s.rolloutPolicy(); err == nil {
		options = append(options, searcher.WithRolloutPolicy(policy))
	}
	if s.TreeReuse {
		options = append(options, searcher.WithTreeReuse())
	}
	return options
}

// Metrics describes the agent for experiment records.
func (a AgentConfig) Metrics() metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:          a.ID,
		Name:        a.Name,
		Kind:        a.Kind,
		Simulations: a.SimulationCount,
		TimeLimit:   time.Duration(a.TimeLimitMillis) * time.Millisecond,
		Exploration: a.ExplorationConstant,
		Goroutines:  a.Goroutines,
		Rollout:     a.Rollout,
		TreeReuse:   a.TreeReuse,
	}
}
