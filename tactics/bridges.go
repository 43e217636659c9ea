package tactics

import (
	"hexagent/game"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Bridge is a two-cell double connection. For edge bridges the stone in Ends[0]
// is linked to its goal edge instead of a stone, and Ends[1] holds game.Swap.
type Bridge struct {
	Ends  [2]game.Move
	Edge  bool
	Links [2]game.Move
}

func (b Bridge) hasLink(m game.Move) bool {
	return b.Links[0] == m || b.Links[1] == m
}

func (b Bridge) sameLinks(other Bridge) bool {
	return other.hasLink(b.Links[0]) && other.hasLink(b.Links[1])
}

// Bridges tracks the virtual bridges of one player.
type Bridges struct {
	edges  bool
	active []Bridge
}

// NewBridges returns an empty tracker. With edges set, stones one row away
// from their goal edge are also linked to that edge.
func NewBridges(edges bool) *Bridges {
	return &Bridges{edges: edges}
}

func (t *Bridges) Active() []Bridge {
	return append([]Bridge(nil), t.active...)
}

func (t *Bridges) Reset() {
	t.active = t.active[:0]
}

// Record scans the stone at move for bridges to own stones two cells away,
// and to the goal edge, and returns how many new bridges were added. The stone
// must already be on board.
func (t *Bridges) Record(board *game.Board, move game.Move, own game.Colour) int {
	if !board.InBounds(move) || board.Colour(move) != own {
		return 0
	}
	added := 0
	neighbours := board.Neighbours(move)
	for i := 0; i < len(game.Directions); i++ {
		for j := i + 1; j < len(game.Directions); j++ {
			di, dj := game.Directions[i], game.Directions[j]
			target := move.Add(di[0]+dj[0], di[1]+dj[1])
			if target == move || lo.Contains(neighbours, target) {
				continue
			}
			if !board.InBounds(target) || board.Colour(target) != own {
				continue
			}
			common := lo.Filter(board.Neighbours(target), func(m game.Move, _ int) bool {
				return lo.Contains(neighbours, m) && board.IsEmpty(m)
			})
			if len(common) != 2 {
				continue
			}
			if t.add(Bridge{Ends: [2]game.Move{move, target}, Links: [2]game.Move{common[0], common[1]}}) {
				added++
			}
		}
	}
	if t.edges {
		if links, ok := edgeLinks(board, move, own); ok {
			if t.add(Bridge{Ends: [2]game.Move{move, game.Swap}, Edge: true, Links: links}) {
				added++
			}
		}
	}
	return added
}

func (t *Bridges) add(b Bridge) bool {
	for _, existing := range t.active {
		if existing.sameLinks(b) {
			return false
		}
	}
	t.active = append(t.active, b)
	log.Debug().Stringer("end", b.Ends[0]).Bool("edge", b.Edge).
		Stringer("link1", b.Links[0]).Stringer("link2", b.Links[1]).Msg("bridge recorded")
	return true
}

// edgeLinks returns the two edge cells adjacent to a stone on the second row
// from one of own's goal edges.
func edgeLinks(board *game.Board, m game.Move, own game.Colour) ([2]game.Move, bool) {
	n := board.Size()
	var links [2]game.Move
	switch {
	case own == game.Red && m.X == 1:
		links = [2]game.Move{{X: 0, Y: m.Y}, {X: 0, Y: m.Y + 1}}
	case own == game.Red && m.X == n-2:
		links = [2]game.Move{{X: n - 1, Y: m.Y - 1}, {X: n - 1, Y: m.Y}}
	case own == game.Blue && m.Y == 1:
		links = [2]game.Move{{X: m.X, Y: 0}, {X: m.X + 1, Y: 0}}
	case own == game.Blue && m.Y == n-2:
		links = [2]game.Move{{X: m.X - 1, Y: n - 1}, {X: m.X, Y: n - 1}}
	default:
		return links, false
	}
	if !board.IsEmpty(links[0]) || !board.IsEmpty(links[1]) {
		return links, false
	}
	return links, true
}

// OnOpponentMove removes every bridge invaded by move and returns the other
// link cell of the first one, which restores that connection.
func (t *Bridges) OnOpponentMove(move game.Move) (game.Move, bool) {
	var response game.Move
	found := false
	kept := t.active[:0]
	for _, b := range t.active {
		if !b.hasLink(move) {
			kept = append(kept, b)
			continue
		}
		if !found {
			response = b.Links[0]
			if response == move {
				response = b.Links[1]
			}
			found = true
		}
	}
	t.active = kept
	return response, found
}

// OnOwnMove drops bridges with an occupied link cell. board must already hold
// the move just played.
func (t *Bridges) OnOwnMove(board *game.Board) {
	t.active = lo.Filter(t.active, func(b Bridge, _ int) bool {
		return board.IsEmpty(b.Links[0]) && board.IsEmpty(b.Links[1])
	})
}
