package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines  int
	Duration    time.Duration
	Simulations int
	TreeSize    int  // Nodes in the tree when the search stopped
	MaxDepth    int  // Deepest node reached by selection and expansion
	TreeReused  bool // Search started from a subtree of the previous search
	StopReason  string
}

type MoveMetric struct {
	Step   int
	Player string // "X" or "O"
	Column int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "X", "O" or "" for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(goroutines int)
	SetTreeReused(value bool)
	AddSimulation()
	AddDepth(depth int)
	Complete(treeSize int, stopReason string) SearchMetric
}

type collector struct {
	goroutines  int
	startTime   time.Time
	simulations atomic.Int64
	maxDepth    atomic.Int64
	treeReused  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.simulations.Store(0)
	m.maxDepth.Store(0)
	m.treeReused.Store(false)
}

func (m *collector) SetTreeReused(value bool) {
	m.treeReused.Store(value)
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) AddDepth(depth int) {
	d := int64(depth)
	for {
		current := m.maxDepth.Load()
		if d <= current || m.maxDepth.CompareAndSwap(current, d) {
			return
		}
	}
}

func (m *collector) Complete(treeSize int, stopReason string) SearchMetric {
	return SearchMetric{
		Goroutines:  m.goroutines,
		Duration:    time.Since(m.startTime),
		Simulations: int(m.simulations.Load()),
		TreeSize:    treeSize,
		MaxDepth:    int(m.maxDepth.Load()),
		TreeReused:  m.treeReused.Load(),
		StopReason:  stopReason,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int)                                  {}
func (m *dummyCollector) SetTreeReused(value bool)                              {}
func (m *dummyCollector) AddSimulation()                                        {}
func (m *dummyCollector) AddDepth(depth int)                                    {}
func (m *dummyCollector) Complete(treeSize int, stopReason string) SearchMetric { return SearchMetric{} }
