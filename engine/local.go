// Package engine runs local two-player matches: it enforces turn order and
// the swap rule, and adjudicates the result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hexagent/experiments/metrics"
	"hexagent/game"

	"github.com/rs/zerolog/log"
)

var ErrIllegalMove = errors.New("illegal move")

// Player is anything that can choose a move for a turn. The engine hands it a
// copy of the board; opp is nil only for the very first move of the game.
type Player interface {
	Name() string
	SelectMove(ctx context.Context, turn int, board *game.Board, opp *game.Move) (game.Move, error)
}

// MetricReporter is implemented by players that describe how they chose their
// last move.
type MetricReporter interface {
	LastMetric() metrics.MoveMetric
}

type Result struct {
	Winner      string
	WinnerIndex int
	Colour      game.Colour
	Board       *game.Board
	// Forfeit wraps ErrIllegalMove when the game ended on an illegal move.
	Forfeit error
	Game    metrics.GameMetric
	Moves   []metrics.MoveMetric
}

type Local struct {
	size    int
	players [2]Player
	colours [2]game.Colour
}

// NewLocal pairs two players on a size×size board. players[0] moves first as
// red.
func NewLocal(size int, players ...Player) *Local {
	if len(players) != 2 {
		panic("a match needs exactly two players")
	}
	return &Local{
		size:    size,
		players: [2]Player{players[0], players[1]},
		colours: [2]game.Colour{game.Red, game.Blue},
	}
}

// Run plays the game to the end. A player that proposes an illegal move loses
// immediately; an error from a player aborts the game.
func (e *Local) Run(ctx context.Context) (Result, error) {
	board := game.NewBoard(e.size)
	result := Result{Board: board}
	result.Game.First = e.players[0].Name()
	result.Game.StartTime = time.Now()

	log.Info().Msgf("%s (%v) vs %s (%v) on %dx%d", e.players[0].Name(), e.colours[0], e.players[1].Name(), e.colours[1], e.size, e.size)

	var last *game.Move
	current := 0
	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		player := e.players[current]
		move, err := player.SelectMove(ctx, turn, board.Clone(), last)
		if err != nil {
			return result, fmt.Errorf("%s failed on turn %d: %w", player.Name(), turn, err)
		}
		result.Moves = append(result.Moves, e.moveMetric(player, turn, current, move))

		if err := e.play(board, turn, current, move); err != nil {
			log.Warn().Err(err).Str("player", player.Name()).Int("turn", turn).Msg("forfeit")
			result.Forfeit = err
			return e.finish(result, 1-current, turn), nil
		}
		if move.IsSwap() {
			result.Game.Swapped = true
		} else if board.HasEnded(e.colours[current]) {
			return e.finish(result, current, turn), nil
		}

		log.Debug().Str("player", player.Name()).Int("turn", turn).Stringer("move", move).Send()
		m := move
		last = &m
		current = 1 - current
	}
}

// play applies move for players[current], or returns an error wrapping
// ErrIllegalMove.
func (e *Local) play(board *game.Board, turn, current int, move game.Move) error {
	if move.IsSwap() {
		if turn != 2 {
			return fmt.Errorf("%w: swap on turn %d", ErrIllegalMove, turn)
		}
		e.colours[0], e.colours[1] = e.colours[1], e.colours[0]
		return nil
	}
	if !board.IsEmpty(move) {
		return fmt.Errorf("%w: %v is not an empty cell", ErrIllegalMove, move)
	}
	board.Place(move, e.colours[current])
	return nil
}

func (e *Local) moveMetric(player Player, turn, current int, move game.Move) metrics.MoveMetric {
	if reporter, ok := player.(MetricReporter); ok {
		return reporter.LastMetric()
	}
	return metrics.MoveMetric{Step: turn, Colour: e.colours[current], Move: move}
}

func (e *Local) finish(result Result, winner, turn int) Result {
	result.WinnerIndex = winner
	result.Winner = e.players[winner].Name()
	result.Colour = e.colours[winner]
	result.Game.Winner = result.Winner
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = turn
	log.Info().Msgf("%s won as %v after %d moves", result.Winner, result.Colour, turn)
	return result
}
