// Package agent decides one move per turn. Cheap rules run first (opening
// book, swap heuristic, forced wins and blocks, bridge repair) and MCTS only
// runs when none of them applies.
package agent

import (
	"context"
	"errors"
	"time"

	"hexagent/budget"
	"hexagent/config"
	"hexagent/experiments/metrics"
	"hexagent/game"
	"hexagent/searcher"
	"hexagent/tactics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Decision sources reported in logs and metrics.
const (
	SourceOpening  = "opening"
	SourceSwap     = "swap"
	SourceTerminal = "terminal"
	SourceBridge   = "bridge"
	SourceSearch   = "search"
	SourcePanic    = "panic"
	SourceFallback = "fallback"
)

type Option func(a *Agent)

// WithName labels the agent in logs and exported metrics.
func WithName(name string) Option {
	return func(a *Agent) {
		a.name = name
	}
}

// WithExporter publishes search and decision counters.
func WithExporter(exporter *metrics.Prometheus) Option {
	return func(a *Agent) {
		a.exporter = exporter
	}
}

// WithTimeBank shares a time bank instead of creating one from the config.
func WithTimeBank(bank *budget.TimeBank) Option {
	return func(a *Agent) {
		if bank != nil {
			a.bank = bank
		}
	}
}

type Agent struct {
	name       string
	colour     game.Colour
	config     config.Config
	rng        *rand.Rand
	bank       *budget.TimeBank
	controller *budget.Controller
	mcts       *searcher.MCTS
	bridges    *tactics.Bridges
	exporter   *metrics.Prometheus
	// pending holds the moves played since the retained search root.
	pending    []game.Move
	lastMetric metrics.MoveMetric
}

func New(colour game.Colour, cfg config.Config, options ...Option) *Agent {
	a := &Agent{
		name:    colour.String(),
		colour:  colour,
		config:  cfg,
		bridges: tactics.NewBridges(cfg.EdgeBridges),
	}
	for _, option := range options {
		option(a)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a.rng = rand.New(rand.NewSource(seed))
	if a.bank == nil {
		a.bank = budget.NewTimeBank(cfg.Budget.TotalTime)
	}
	a.controller = budget.NewController(cfg.ToBudgetConfig(), a.bank)

	collector := metrics.NewCollector()
	if a.exporter != nil {
		collector = a.exporter.Collector(a.name)
	}
	a.mcts = searcher.NewMCTS(
		searcher.WithExploration(cfg.Search.Exploration),
		searcher.WithRaveBias(cfg.Search.RaveBias),
		searcher.WithRave(cfg.Search.Rave),
		searcher.WithTreeReuse(cfg.Search.TreeReuse),
		searcher.WithSeed(seed+1),
		searcher.WithMetrics(collector),
	)
	return a
}

func (a *Agent) Name() string {
	return a.name
}

// Colour is the side the agent currently plays. It changes when either side
// swaps.
func (a *Agent) Colour() game.Colour {
	return a.colour
}

// LastMetric describes the most recent decision.
func (a *Agent) LastMetric() metrics.MoveMetric {
	return a.lastMetric
}

// SelectMove returns the agent's move for turn (1-based) on board. opp is the
// opponent's last move, nil when the agent opens the game. The returned move is
// always legal; the only error is ErrNoLegalMoves.
func (a *Agent) SelectMove(ctx context.Context, turn int, board *game.Board, opp *game.Move) (game.Move, error) {
	start := time.Now()
	defer func() { a.bank.Charge(time.Since(start)) }()

	if opp != nil && opp.IsSwap() {
		a.flipColour()
	} else if opp != nil {
		a.pending = append(a.pending, *opp)
	}

	candidates := board.EmptyCells()
	if len(candidates) == 0 {
		return game.Move{}, ErrNoLegalMoves
	}

	move, source, metric := a.decide(ctx, turn, board, opp, candidates)
	if !a.isLegal(turn, board, candidates, move) {
		log.Warn().Str("agent", a.name).Stringer("move", move).Str("source", source).Msg("illegal move proposed, substituting a random one")
		move, source = a.randomMove(candidates), SourceFallback
	}
	a.commit(board, move)

	a.lastMetric = metrics.MoveMetric{Step: turn, Colour: a.colour, Move: move, Source: source, SearchMetric: metric}
	if move.IsSwap() {
		a.lastMetric.Colour = a.colour.Opponent()
	}
	if a.exporter != nil {
		a.exporter.ObserveDecision(a.name, source)
	}
	log.Debug().Str("agent", a.name).Int("turn", turn).Stringer("move", move).Str("source", source).Msg("move selected")
	return move, nil
}

func (a *Agent) decide(ctx context.Context, turn int, board *game.Board, opp *game.Move, candidates []game.Move) (game.Move, string, metrics.SearchMetric) {
	var none metrics.SearchMetric

	if opp == nil {
		if book := openingMoves(board); len(book) > 0 {
			return book[a.rng.Intn(len(book))], SourceOpening, none
		}
	}

	if turn == 2 && opp != nil && !opp.IsSwap() && shouldSwap(*opp, board.Size()) {
		return game.Swap, SourceSwap, none
	}

	forced, isForced := tactics.FindForcedMove(board, candidates, a.colour)
	// Invaded bridges are dropped even when a forced move takes the turn.
	var response game.Move
	invaded := false
	if a.config.Bridges && opp != nil && !opp.IsSwap() {
		response, invaded = a.bridges.OnOpponentMove(*opp)
	}
	if isForced {
		return forced, SourceTerminal, none
	}
	if invaded && board.IsEmpty(response) {
		return response, SourceBridge, none
	}

	plan := a.controller.Plan(turn, board)
	if plan.Panic {
		log.Warn().Str("agent", a.name).Dur("remaining", a.bank.Remaining()).Msg("time bank exhausted, playing without search")
		return a.randomMove(candidates), SourcePanic, none
	}

	a.mcts.Advance(a.pending, board)
	move, metric, err := a.mcts.Search(ctx, board, a.colour, candidates, plan)
	a.pending = nil
	if err != nil {
		log.Warn().Err(err).Str("agent", a.name).Msg("search produced no move")
		return a.randomMove(candidates), SourceFallback, metric
	}
	return move, SourceSearch, metric
}

// isLegal checks bounds, emptiness and candidacy, and allows Swap on turn 2
// only.
func (a *Agent) isLegal(turn int, board *game.Board, candidates []game.Move, move game.Move) bool {
	if move.IsSwap() {
		return turn == 2
	}
	if !board.InBounds(move) || !board.IsEmpty(move) {
		return false
	}
	for _, c := range candidates {
		if c == move {
			return true
		}
	}
	return false
}

func (a *Agent) randomMove(candidates []game.Move) game.Move {
	return candidates[a.rng.Intn(len(candidates))]
}

// commit updates bridge and tree bookkeeping for the agent's own move.
func (a *Agent) commit(board *game.Board, move game.Move) {
	if move.IsSwap() {
		a.flipColour()
		return
	}
	a.pending = append(a.pending, move)
	if !a.config.Bridges {
		return
	}
	after := board.Clone()
	after.Place(move, a.colour)
	a.bridges.OnOwnMove(after)
	a.bridges.Record(after, move, a.colour)
}

// flipColour follows a swap: stones already on the board change owner, so
// bridges and the search tree no longer describe our position.
func (a *Agent) flipColour() {
	a.colour = a.colour.Opponent()
	a.bridges.Reset()
	a.mcts.Reset()
	a.pending = nil
	log.Debug().Str("agent", a.name).Stringer("colour", a.colour).Msg("colours swapped")
}
