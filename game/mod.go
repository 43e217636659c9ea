package game

import (
	"fmt"
	"strings"
)

// Colour is the owner of a cell. Red connects the top row (x=0) to the bottom
// row (x=N-1); Blue connects the left column (y=0) to the right column (y=N-1).
type Colour uint8

const (
	Empty Colour = iota
	Red
	Blue
)

func (c Colour) Opponent() Colour {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	}
	return Empty
}

func (c Colour) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	}
	return "empty"
}

// Rune is the single-character cell notation used by ParseBoard and Board.String.
func (c Colour) Rune() rune {
	switch c {
	case Red:
		return 'R'
	case Blue:
		return 'B'
	}
	return '.'
}

func ParseColour(s string) (Colour, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "blue", "b":
		return Blue, nil
	}
	return Empty, fmt.Errorf("unknown colour %q", s)
}
