package searcher

import (
	"hexagent/game"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

const noParent = -1

// node is one position in the arena. colour is the side to move at the node,
// so the move that created it was played by the parent's colour.
type node struct {
	parent     int
	move       game.Move
	colour     game.Colour
	board      *game.Board
	untried    []game.Move
	children   []int
	visits     int
	wins       int
	amafVisits []int32
	amafWins   []int32
	terminal   bool
}

// step is one (move, mover) pair of a simulated line.
type step struct {
	move   game.Move
	colour game.Colour
}

// tree stores nodes in a flat arena. The root is always nodes[0].
type tree struct {
	size  int
	nodes []node
}

func newTree(board *game.Board, colour game.Colour, candidates []game.Move) *tree {
	t := &tree{size: board.Size()}
	untried := lo.Filter(candidates, func(m game.Move, _ int) bool { return board.IsEmpty(m) })
	t.nodes = append(t.nodes, t.newNode(noParent, game.Swap, colour, board.Clone(), lo.Uniq(untried)))
	return t
}

func (t *tree) newNode(parent int, move game.Move, colour game.Colour, board *game.Board, untried []game.Move) node {
	cells := t.size * t.size
	n := node{
		parent:     parent,
		move:       move,
		colour:     colour,
		board:      board,
		untried:    untried,
		amafVisits: make([]int32, cells),
		amafWins:   make([]int32, cells),
	}
	if _, ok := board.Winner(); ok { // Decided positions have no legal moves
		n.terminal = true
		n.untried = nil
	}
	return n
}

// restrict limits the root's untried moves to candidates. It reports false
// when an expanded root child is not among them.
func (t *tree) restrict(candidates []game.Move) bool {
	allowed := make(map[game.Move]bool, len(candidates))
	for _, m := range candidates {
		allowed[m] = true
	}
	root := t.root()
	for _, c := range root.children {
		if !allowed[t.nodes[c].move] {
			return false
		}
	}
	root.untried = lo.Filter(root.untried, func(m game.Move, _ int) bool { return allowed[m] })
	return true
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

func (t *tree) len() int {
	return len(t.nodes)
}

// expand plays a uniformly random untried move of node i and returns the new
// child's index.
func (t *tree) expand(i int, rng *rand.Rand) int {
	parent := &t.nodes[i]
	k := rng.Intn(len(parent.untried))
	move := parent.untried[k]
	last := len(parent.untried) - 1
	parent.untried[k] = parent.untried[last]
	parent.untried = parent.untried[:last]

	board := parent.board.Clone()
	board.Place(move, parent.colour)
	child := t.newNode(i, move, parent.colour.Opponent(), board, board.EmptyCells())

	t.nodes = append(t.nodes, child) // parent is invalid from here on
	index := len(t.nodes) - 1
	t.nodes[i].children = append(t.nodes[i].children, index)
	return index
}

// bestChild picks a random unvisited child if any, otherwise the child with
// the highest selection score.
func (t *tree) bestChild(i int, rng *rand.Rand, exploration, raveBias float64, rave bool) int {
	parent := &t.nodes[i]
	unvisited := lo.Filter(parent.children, func(c int, _ int) bool { return t.nodes[c].visits == 0 })
	if len(unvisited) > 0 {
		return unvisited[rng.Intn(len(unvisited))]
	}

	policy := newSelection(exploration, raveBias, rave, parent.visits)
	best := -1
	bestScore := 0.0
	for _, c := range parent.children {
		child := &t.nodes[c]
		index := child.move.Index(t.size)
		score := policy.evaluate(child.wins, child.visits, int(parent.amafWins[index]), int(parent.amafVisits[index]))
		if best == -1 || score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// backup walks from leaf to the root crediting visits, wins and, when rave is
// set, AMAF statistics for every move of trace played at or below each node.
func (t *tree) backup(leaf int, trace []step, winner game.Colour, rave bool) {
	depth := 0
	for i := leaf; t.nodes[i].parent != noParent; i = t.nodes[i].parent {
		depth++
	}

	for i := leaf; i != noParent; i = t.nodes[i].parent {
		n := &t.nodes[i]
		n.visits++
		mover := n.colour // The root credits the side to move
		if n.parent != noParent {
			mover = t.nodes[n.parent].colour
		}
		if winner == mover {
			n.wins++
		}

		if rave && !n.terminal {
			for _, s := range trace[depth:] {
				if s.colour != n.colour || !n.board.IsEmpty(s.move) {
					continue
				}
				index := s.move.Index(t.size)
				n.amafVisits[index]++
				if winner == n.colour {
					n.amafWins[index]++
				}
			}
		}
		depth--
	}
}

// mostVisited returns the root child with the most visits, ties going to the
// earliest expanded.
func (t *tree) mostVisited() (*node, bool) {
	root := t.root()
	if len(root.children) == 0 {
		return nil, false
	}
	best := &t.nodes[root.children[0]]
	for _, c := range root.children[1:] {
		if t.nodes[c].visits > best.visits {
			best = &t.nodes[c]
		}
	}
	return best, true
}

// traverse follows path from the root through expanded children.
func (t *tree) traverse(path []game.Move) (int, bool) {
	i := 0
	for _, move := range path {
		next, ok := lo.Find(t.nodes[i].children, func(c int) bool { return t.nodes[c].move == move })
		if !ok { // Node has not expanded this move
			return 0, false
		}
		i = next
	}
	return i, true
}

// promote makes node i the root and compacts the arena to its subtree.
func (t *tree) promote(i int) {
	if i == 0 {
		return
	}
	remap := map[int]int{i: 0}
	order := []int{i}
	for k := 0; k < len(order); k++ {
		for _, c := range t.nodes[order[k]].children {
			remap[c] = len(order)
			order = append(order, c)
		}
	}

	nodes := make([]node, len(order))
	for k, old := range order {
		n := t.nodes[old]
		if k == 0 {
			n.parent = noParent
		} else {
			n.parent = remap[n.parent]
		}
		children := make([]int, len(n.children))
		for j, c := range n.children {
			children[j] = remap[c]
		}
		n.children = children
		nodes[k] = n
	}
	t.nodes = nodes
}
