package metrics

import (
	"sync/atomic"
	"time"

	"hexagent/game"
)

type SearchMetric struct {
	Budget       string
	Duration     time.Duration
	Episodes     int
	TerminalHits int
	TreeSize     int
	RootVisits   int
	BestVisits   int
	Rave         bool
	IsTreeReset  bool
}

type MoveMetric struct {
	Step   int
	Colour game.Colour
	Move   game.Move
	Source string // Which layer of the agent decided the move
	SearchMetric
}

type GameMetric struct {
	First      string // Name of the player who moved first
	Winner     string
	Swapped    bool
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(budget string, rave bool)
	SetTreeReset(value bool)
	AddEpisode()
	AddTerminalHit()
	Complete(treeSize, rootVisits, bestVisits int) SearchMetric
}

type collector struct {
	budget       string
	rave         bool
	startTime    time.Time
	episodes     atomic.Int32
	terminalHits atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) Start(budget string, rave bool) {
	m.startTime = time.Now()
	m.budget = budget
	m.rave = rave
	m.episodes.Store(0)
	m.terminalHits.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

// AddTerminalHit counts episodes whose selection ended on a decided position.
func (m *collector) AddTerminalHit() {
	m.terminalHits.Add(1)
}

func (m *collector) Complete(treeSize, rootVisits, bestVisits int) SearchMetric {
	return SearchMetric{
		Budget:       m.budget,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		TerminalHits: int(m.terminalHits.Load()),
		TreeSize:     treeSize,
		RootVisits:   rootVisits,
		BestVisits:   bestVisits,
		Rave:         m.rave,
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget string, rave bool)                             {}
func (m *dummyCollector) SetTreeReset(value bool)                                    {}
func (m *dummyCollector) AddEpisode()                                                {}
func (m *dummyCollector) AddTerminalHit()                                            {}
func (m *dummyCollector) Complete(treeSize, rootVisits, bestVisits int) SearchMetric { return SearchMetric{} }
