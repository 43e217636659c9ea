package searcher

import (
	"context"
	"errors"
	"time"

	"hexagent/budget"
	"hexagent/experiments/metrics"
	"hexagent/game"
	"hexagent/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// ErrNoIterations is returned when the budget ran out before the root gained a
// single child.
var ErrNoIterations = errors.New("search finished without expanding the root")

type Option func(mcts *MCTS)

type MCTS struct {
	exploration float64
	raveBias    float64
	rave        bool
	reuse       bool
	rng         *rand.Rand
	tree        *tree
	metrics     metrics.Collector
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithRaveBias(k float64) Option {
	return func(m *MCTS) {
		if k > 0 {
			m.raveBias = k
		}
	}
}

func WithRave(enabled bool) Option {
	return func(m *MCTS) {
		m.rave = enabled
	}
}

func WithTreeReuse(enabled bool) Option {
	return func(m *MCTS) {
		m.reuse = enabled
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		exploration: meta.EXPLORATION,
		raveBias:    meta.RAVE_BIAS,
		rave:        true,
		reuse:       true,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Search runs iterations from board with colour to move until b is exhausted
// or ctx is done, and returns the most visited root move. The budget is only
// checked between iterations. A retained root is narrowed to candidates, or
// rebuilt when one of its expanded children is no longer a candidate.
func (m *MCTS) Search(ctx context.Context, board *game.Board, colour game.Colour, candidates []game.Move, b budget.Budget) (game.Move, metrics.SearchMetric, error) {
	m.findRoot(board, colour, candidates)

	m.metrics.Start(b.String(), m.rave)
	for done := 0; !b.Exhausted(done, time.Now()) && ctx.Err() == nil; done++ {
		m.simulate()
		m.metrics.AddEpisode()
	}

	best, ok := m.tree.mostVisited()
	bestVisits := 0
	if ok {
		bestVisits = best.visits
	}
	metric := m.metrics.Complete(m.tree.len(), m.tree.root().visits, bestVisits)
	if !ok {
		return game.Move{}, metric, ErrNoIterations
	}

	log.Debug().Stringer("move", best.move).Int("visits", best.visits).
		Int("episodes", metric.Episodes).Int("nodes", metric.TreeSize).Msg("search complete")
	return best.move, metric, nil
}

// Advance re-roots the retained tree along path, the moves played since the
// last search, and checks that the new root holds board. It reports whether
// the tree survived; on any mismatch the tree is discarded.
func (m *MCTS) Advance(path []game.Move, board *game.Board) bool {
	if !m.reuse || m.tree == nil {
		m.Reset()
		return false
	}
	i, ok := m.tree.traverse(path)
	if !ok {
		m.Reset()
		return false
	}
	if !m.tree.nodes[i].board.Equal(board) {
		log.Warn().Msg("retained node's board does not match the played position")
		m.Reset()
		return false
	}
	m.tree.promote(i)
	return true
}

func (m *MCTS) Reset() {
	m.tree = nil
}

func (m *MCTS) findRoot(board *game.Board, colour game.Colour, candidates []game.Move) {
	if m.reuse && m.tree != nil {
		root := m.tree.root()
		if root.colour == colour && root.board.Equal(board) && m.tree.restrict(candidates) {
			m.metrics.SetTreeReset(false)
			return
		}
	}
	m.tree = newTree(board, colour, candidates)
	m.metrics.SetTreeReset(true)
}

func (m *MCTS) simulate() {
	leaf, trace := m.selectThenExpand()
	n := &m.tree.nodes[leaf]
	if n.terminal {
		m.metrics.AddTerminalHit()
	}
	winner, trace := rollout(n.board.Clone(), n.colour, trace, m.rng)
	m.tree.backup(leaf, trace, winner, m.rave)
}

func (m *MCTS) selectThenExpand() (int, []step) {
	t := m.tree
	var trace []step
	i := 0
	for !t.nodes[i].terminal && len(t.nodes[i].untried) == 0 && len(t.nodes[i].children) > 0 {
		child := t.bestChild(i, m.rng, m.exploration, m.raveBias, m.rave)
		trace = append(trace, step{move: t.nodes[child].move, colour: t.nodes[i].colour})
		i = child
	}
	if !t.nodes[i].terminal && len(t.nodes[i].untried) > 0 {
		mover := t.nodes[i].colour
		i = t.expand(i, m.rng)
		trace = append(trace, step{move: t.nodes[i].move, colour: mover})
	}
	return i, trace
}

// rollout plays uniformly random moves on board until someone connects and
// returns the winner with trace extended by the moves played.
func rollout(board *game.Board, colour game.Colour, trace []step, rng *rand.Rand) (game.Colour, []step) {
	if winner, ok := board.Winner(); ok {
		return winner, trace
	}
	moves := board.EmptyCells()
	rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	for _, move := range moves {
		board.Place(move, colour)
		trace = append(trace, step{move: move, colour: colour})
		if board.HasEnded(colour) {
			return colour, trace
		}
		colour = colour.Opponent()
	}
	winner, _ := board.Winner()
	return winner, trace
}
