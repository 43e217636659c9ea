package agent

import (
	"hexagent/game"
	"hexagent/meta"

	"github.com/samber/lo"
)

// openingMoves are the empty cells among the four first moves next to the
// corners on the red edges, minus any that shouldSwap would take over. On
// small boards the swap region covers them all and the book is empty.
func openingMoves(board *game.Board) []game.Move {
	n := board.Size()
	book := []game.Move{{X: 0, Y: 1}, {X: 0, Y: n - 2}, {X: n - 1, Y: 1}, {X: n - 1, Y: n - 2}}
	return lo.Filter(lo.Uniq(book), func(m game.Move, _ int) bool {
		return board.IsEmpty(m) && !shouldSwap(m, n)
	})
}

// shouldSwap takes over the opponent's first stone when it sits in the
// central sub-board or on the middle of an edge.
func shouldSwap(first game.Move, size int) bool {
	low, high := size/2-meta.CENTRE_MARGIN, size/2+meta.CENTRE_MARGIN
	inCentre := func(v int) bool { return v >= low && v <= high }
	onEdge := func(v int) bool { return v == 0 || v == size-1 }

	central := inCentre(first.X) && inCentre(first.Y)
	strongEdge := (onEdge(first.X) && inCentre(first.Y)) || (onEdge(first.Y) && inCentre(first.X))
	return central || strongEdge
}
