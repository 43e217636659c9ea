package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardPlace(t *testing.T) {
	t.Run("placing a stone fills one cell", func(t *testing.T) {
		b := NewBoard(5)
		b.Place(Move{X: 2, Y: 3}, Red)

		require.Equal(t, Red, b.Colour(Move{X: 2, Y: 3}), "Cell should take the placed colour")
		require.False(t, b.IsEmpty(Move{X: 2, Y: 3}), "Cell should no longer be empty")
		require.Equal(t, 1, b.Filled(), "Exactly one cell should be filled")
		require.Len(t, b.EmptyCells(), 24, "Remaining cells should all be empty")
	})

	t.Run("placing on an occupied cell panics", func(t *testing.T) {
		b := NewBoard(5)
		b.Place(Move{X: 0, Y: 0}, Blue)

		require.Panics(t, func() { b.Place(Move{X: 0, Y: 0}, Red) }, "Cells are write-once")
	})

	t.Run("out of bounds cells are never empty", func(t *testing.T) {
		b := NewBoard(5)

		require.False(t, b.IsEmpty(Move{X: 5, Y: 0}), "Row 5 is off a 5x5 board")
		require.False(t, b.IsEmpty(Swap), "Swap is not a cell")
	})
}

func TestBoardAdjudication(t *testing.T) {
	t.Run("red wins by joining top and bottom rows", func(t *testing.T) {
		b := NewBoard(4)
		for x := 0; x < 3; x++ {
			b.Place(Move{X: x, Y: 1}, Red)
		}
		require.False(t, b.HasEnded(Red), "Red is one stone short")

		b.Place(Move{X: 3, Y: 1}, Red)

		require.True(t, b.HasEnded(Red), "Red column connects both red edges")
		winner, ok := b.Winner()
		require.True(t, ok, "Winner should be reported")
		require.Equal(t, Red, winner, "Winner should agree with HasEnded")
	})

	t.Run("blue wins along a diagonal chain", func(t *testing.T) {
		b := NewBoard(3)
		// (2,0) -> (1,1) -> (0,2) are pairwise adjacent via the (-1,1) direction.
		b.Place(Move{X: 2, Y: 0}, Blue)
		b.Place(Move{X: 1, Y: 1}, Blue)
		require.False(t, b.HasEnded(Blue), "Blue has not reached the right edge")

		b.Place(Move{X: 0, Y: 2}, Blue)

		require.True(t, b.HasEnded(Blue), "Anti-diagonal is a connected hex path")
		require.False(t, b.HasEnded(Red), "Red has no stones")
	})

	t.Run("stones on the opponent's edges do not count", func(t *testing.T) {
		b := NewBoard(3)
		for y := 0; y < 3; y++ {
			b.Place(Move{X: 0, Y: y}, Red)
		}

		require.False(t, b.HasEnded(Red), "A row along red's own edge does not cross the board")
		_, ok := b.Winner()
		require.False(t, ok, "No winner yet")
	})

	t.Run("a full board always has exactly one winner", func(t *testing.T) {
		b := NewBoard(5)
		colour := Red
		for _, m := range b.EmptyCells() {
			b.Place(m, colour)
			colour = colour.Opponent()
		}

		require.NotEqual(t, b.HasEnded(Red), b.HasEnded(Blue), "Hex has no draws")
	})
}

func TestBoardClone(t *testing.T) {
	t.Run("clone is independent of the original", func(t *testing.T) {
		b := NewBoard(4)
		b.Place(Move{X: 0, Y: 0}, Red)
		c := b.Clone()

		c.Place(Move{X: 1, Y: 0}, Red)
		c.Place(Move{X: 2, Y: 0}, Red)
		c.Place(Move{X: 3, Y: 0}, Red)

		require.True(t, c.HasEnded(Red), "Clone should see its own win")
		require.False(t, b.HasEnded(Red), "Original should be untouched")
		require.Equal(t, 1, b.Filled(), "Original fill count should be untouched")
		require.False(t, b.Equal(c), "Boards differ after diverging")
	})
}

func TestParseBoard(t *testing.T) {
	t.Run("round trips through String", func(t *testing.T) {
		b := NewBoard(3)
		b.Place(Move{X: 0, Y: 1}, Red)
		b.Place(Move{X: 2, Y: 2}, Blue)

		parsed, err := ParseBoard(b.String())

		require.NoError(t, err)
		require.True(t, b.Equal(parsed), "Parsed board should equal the original")
	})

	t.Run("accepts slash separated rows", func(t *testing.T) {
		parsed, err := ParseBoard("R../.B./...")

		require.NoError(t, err)
		require.Equal(t, 3, parsed.Size())
		require.Equal(t, Red, parsed.Colour(Move{X: 0, Y: 0}))
		require.Equal(t, Blue, parsed.Colour(Move{X: 1, Y: 1}))
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		_, err := ParseBoard("R../.B/...")

		require.Error(t, err, "Row 1 is short")
	})
}

func TestColour(t *testing.T) {
	t.Run("opponent flips red and blue", func(t *testing.T) {
		require.Equal(t, Blue, Red.Opponent())
		require.Equal(t, Red, Blue.Opponent())
		require.Equal(t, Empty, Empty.Opponent())
	})

	t.Run("parse accepts names and initials", func(t *testing.T) {
		c, err := ParseColour("Blue")
		require.NoError(t, err)
		require.Equal(t, Blue, c)

		_, err = ParseColour("green")
		require.Error(t, err)
	})
}

func TestParseMove(t *testing.T) {
	t.Run("accepts coordinates with or without parentheses", func(t *testing.T) {
		m, err := ParseMove("3,4")
		require.NoError(t, err)
		require.Equal(t, Move{X: 3, Y: 4}, m)

		m, err = ParseMove(Move{X: 10, Y: 0}.String())
		require.NoError(t, err)
		require.Equal(t, Move{X: 10, Y: 0}, m, "String output parses back")
	})

	t.Run("accepts swap", func(t *testing.T) {
		m, err := ParseMove("Swap")
		require.NoError(t, err)
		require.True(t, m.IsSwap())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseMove("north")
		require.Error(t, err)
	})
}
