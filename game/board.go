package game

import (
	"fmt"
	"strings"
)

// Directions are the six hex-neighbour offsets.
var Directions = [6][2]int{
	{-1, 0}, {1, 0},
	{0, -1}, {0, 1},
	{-1, 1}, {1, -1},
}

// Virtual edge nodes appended after the N*N cells in the union-find forest.
const (
	redTop = iota
	redBottom
	blueLeft
	blueRight
	numEdges
)

// Board holds the cell grid and adjudicates wins incrementally: every stone is
// unioned with its same-colour neighbours and with the virtual nodes of the
// edges it touches, so HasEnded is two finds.
type Board struct {
	size   int
	cells  []Colour
	parent []int32
	filled int
}

func NewBoard(size int) *Board {
	if size < 2 {
		panic(fmt.Sprintf("board size %d is too small", size))
	}
	n := size * size
	b := &Board{
		size:   size,
		cells:  make([]Colour, n),
		parent: make([]int32, n+numEdges),
	}
	for i := range b.parent {
		b.parent[i] = int32(i)
	}
	return b
}

func (b *Board) Size() int {
	return b.size
}

// Clone returns a deep copy of cell state and connectivity.
func (b *Board) Clone() *Board {
	c := &Board{
		size:   b.size,
		cells:  make([]Colour, len(b.cells)),
		parent: make([]int32, len(b.parent)),
		filled: b.filled,
	}
	copy(c.cells, b.cells)
	copy(c.parent, b.parent)
	return c
}

func (b *Board) InBounds(m Move) bool {
	return m.X >= 0 && m.X < b.size && m.Y >= 0 && m.Y < b.size
}

func (b *Board) Colour(m Move) Colour {
	return b.cells[m.Index(b.size)]
}

func (b *Board) IsEmpty(m Move) bool {
	return b.InBounds(m) && b.cells[m.Index(b.size)] == Empty
}

// Filled returns the number of occupied cells.
func (b *Board) Filled() int {
	return b.filled
}

// EmptyRatio is the fraction of cells still empty.
func (b *Board) EmptyRatio() float64 {
	return float64(len(b.cells)-b.filled) / float64(len(b.cells))
}

// Place sets an empty cell. Cells are written once; placing on an occupied
// cell is a caller bug.
func (b *Board) Place(m Move, c Colour) {
	if c == Empty {
		panic("cannot place an empty stone")
	}
	idx := m.Index(b.size)
	if b.cells[idx] != Empty {
		panic(fmt.Sprintf("cell %v is already occupied by %v", m, b.cells[idx]))
	}
	b.cells[idx] = c
	b.filled++

	n := len(b.cells)
	switch c {
	case Red:
		if m.X == 0 {
			b.union(idx, n+redTop)
		}
		if m.X == b.size-1 {
			b.union(idx, n+redBottom)
		}
	case Blue:
		if m.Y == 0 {
			b.union(idx, n+blueLeft)
		}
		if m.Y == b.size-1 {
			b.union(idx, n+blueRight)
		}
	}
	for _, d := range Directions {
		nb := m.Add(d[0], d[1])
		if b.InBounds(nb) && b.cells[nb.Index(b.size)] == c {
			b.union(idx, nb.Index(b.size))
		}
	}
}

// HasEnded reports whether c has connected its two edges.
func (b *Board) HasEnded(c Colour) bool {
	n := len(b.cells)
	switch c {
	case Red:
		return b.find(n+redTop) == b.find(n+redBottom)
	case Blue:
		return b.find(n+blueLeft) == b.find(n+blueRight)
	}
	return false
}

// Winner returns the colour that has connected its edges, if any. It agrees
// with HasEnded by construction.
func (b *Board) Winner() (Colour, bool) {
	if b.HasEnded(Red) {
		return Red, true
	}
	if b.HasEnded(Blue) {
		return Blue, true
	}
	return Empty, false
}

// EmptyCells lists the empty cells in row-major order.
func (b *Board) EmptyCells() []Move {
	moves := make([]Move, 0, len(b.cells)-b.filled)
	for i, c := range b.cells {
		if c == Empty {
			moves = append(moves, MoveAt(i, b.size))
		}
	}
	return moves
}

// Neighbours returns the in-bounds hex neighbours of m.
func (b *Board) Neighbours(m Move) []Move {
	nbs := make([]Move, 0, len(Directions))
	for _, d := range Directions {
		nb := m.Add(d[0], d[1])
		if b.InBounds(nb) {
			nbs = append(nbs, nb)
		}
	}
	return nbs
}

// Equal compares cell state only.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (b *Board) find(i int) int {
	for int(b.parent[i]) != i {
		b.parent[i] = b.parent[b.parent[i]]
		i = int(b.parent[i])
	}
	return i
}

func (b *Board) union(i, j int) {
	ri, rj := b.find(i), b.find(j)
	if ri != rj {
		b.parent[ri] = int32(rj)
	}
}

// String renders one row per line using R, B and '.'.
func (b *Board) String() string {
	var sb strings.Builder
	for x := 0; x < b.size; x++ {
		sb.WriteString(strings.Repeat(" ", x))
		for y := 0; y < b.size; y++ {
			if y > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(b.cells[x*b.size+y].Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the String format. Whitespace is ignored; rows are separated
// by newlines or by '/'.
func ParseBoard(s string) (*Board, error) {
	rows := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '/' })
	var grid [][]Colour
	for _, row := range rows {
		row = strings.Join(strings.Fields(row), "")
		if row == "" {
			continue
		}
		cells := make([]Colour, 0, len(row))
		for _, r := range row {
			switch r {
			case 'R', 'r':
				cells = append(cells, Red)
			case 'B', 'b':
				cells = append(cells, Blue)
			case '.', '0':
				cells = append(cells, Empty)
			default:
				return nil, fmt.Errorf("unexpected cell %q", r)
			}
		}
		grid = append(grid, cells)
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("board has %d rows", len(grid))
	}
	b := NewBoard(len(grid))
	for x, cells := range grid {
		if len(cells) != len(grid) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", x, len(cells), len(grid))
		}
		for y, c := range cells {
			if c != Empty {
				b.Place(Move{X: x, Y: y}, c)
			}
		}
	}
	return b, nil
}
