// Package player holds baseline players for matches and experiments.
package player

import (
	"context"

	"hexagent/agent"
	"hexagent/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random empty cell and never swaps.
type Random struct {
	name string
	rng  *rand.Rand
}

func NewRandom(name string, seed uint64) *Random {
	return &Random{name: name, rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Name() string {
	return p.name
}

// SelectMove picks one of the empty cells.
func (p *Random) SelectMove(ctx context.Context, turn int, board *game.Board, opp *game.Move) (game.Move, error) {
	cells := board.EmptyCells()
	if len(cells) == 0 {
		return game.Move{}, agent.ErrNoLegalMoves
	}
	return cells[p.rng.Intn(len(cells))], nil
}
