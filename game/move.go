package game

import (
	"fmt"
	"strings"
)

// Move is a cell coordinate, or the Swap sentinel.
type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Swap takes over the opponent's first stone. It is legal only on turn 2.
var Swap = Move{X: -1, Y: -1}

func (m Move) IsSwap() bool {
	return m == Swap
}

// Index linearizes the move for a board of the given size.
func (m Move) Index(size int) int {
	return m.X*size + m.Y
}

func MoveAt(index, size int) Move {
	return Move{X: index / size, Y: index % size}
}

func (m Move) Add(dx, dy int) Move {
	return Move{X: m.X + dx, Y: m.Y + dy}
}

func (m Move) String() string {
	if m.IsSwap() {
		return "swap"
	}
	return fmt.Sprintf("(%d,%d)", m.X, m.Y)
}

// ParseMove reads "x,y", "(x,y)" or "swap".
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "swap" {
		return Swap, nil
	}
	var m Move
	if _, err := fmt.Sscanf(strings.Trim(s, "()"), "%d,%d", &m.X, &m.Y); err != nil {
		return Move{}, fmt.Errorf("parse move %q: %w", s, err)
	}
	return m, nil
}
