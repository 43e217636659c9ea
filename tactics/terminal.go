package tactics

import "hexagent/game"

// FindForcedMove is a one-ply lookahead over the candidates: a move that wins
// outright for own is returned first, otherwise a cell the opponent would win
// by occupying is returned so that own takes it first.
func FindForcedMove(board *game.Board, candidates []game.Move, own game.Colour) (game.Move, bool) {
	if move, ok := findWinningMove(board, candidates, own); ok {
		return move, true
	}
	return findWinningMove(board, candidates, own.Opponent())
}

func findWinningMove(board *game.Board, candidates []game.Move, colour game.Colour) (game.Move, bool) {
	for _, move := range candidates {
		if !board.IsEmpty(move) {
			continue
		}
		b := board.Clone()
		b.Place(move, colour)
		if b.HasEnded(colour) {
			return move, true
		}
	}
	return game.Move{}, false
}
