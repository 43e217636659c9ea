package player

import (
	"context"
	"testing"

	"hexagent/agent"
	"hexagent/game"

	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	t.Run("only plays empty cells", func(t *testing.T) {
		board := game.NewBoard(3)
		board.Place(game.Move{X: 0, Y: 0}, game.Red)
		board.Place(game.Move{X: 1, Y: 1}, game.Blue)
		p := NewRandom("random", 1)

		for i := 0; i < 50; i++ {
			move, err := p.SelectMove(context.Background(), 3, board, nil)
			require.NoError(t, err)
			require.True(t, board.IsEmpty(move), "%v is occupied", move)
		}
	})

	t.Run("same seed plays the same moves", func(t *testing.T) {
		board := game.NewBoard(11)
		a, b := NewRandom("a", 9), NewRandom("b", 9)

		for i := 0; i < 10; i++ {
			ma, _ := a.SelectMove(context.Background(), 1, board, nil)
			mb, _ := b.SelectMove(context.Background(), 1, board, nil)
			require.Equal(t, ma, mb)
		}
	})

	t.Run("fails on a full board", func(t *testing.T) {
		board, err := game.ParseBoard("RB/BR")
		require.NoError(t, err)

		_, err = NewRandom("random", 1).SelectMove(context.Background(), 5, board, nil)

		require.ErrorIs(t, err, agent.ErrNoLegalMoves)
	})
}
