package engine

import (
	"context"
	"testing"

	"hexagent/agent"
	"hexagent/config"
	"hexagent/game"
	"hexagent/player"

	"github.com/stretchr/testify/require"
)

// scripted replays fixed moves, one per call.
type scripted struct {
	name  string
	moves []game.Move
	seen  []*game.Move
}

func (s *scripted) Name() string {
	return s.name
}

func (s *scripted) SelectMove(ctx context.Context, turn int, board *game.Board, opp *game.Move) (game.Move, error) {
	s.seen = append(s.seen, opp)
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move, nil
}

func TestLocalRun(t *testing.T) {
	t.Run("random players always produce a winner", func(t *testing.T) {
		for seed := uint64(1); seed <= 5; seed++ {
			e := NewLocal(5, player.NewRandom("a", seed), player.NewRandom("b", seed+100))

			result, err := e.Run(context.Background())

			require.NoError(t, err)
			require.NoError(t, result.Forfeit)
			require.True(t, result.Board.HasEnded(result.Colour), "Winner's colour should be connected")
			require.Equal(t, result.Game.TotalMoves, result.Board.Filled(), "One stone per move without swaps")
			require.Len(t, result.Moves, result.Game.TotalMoves)
		}
	})

	t.Run("the first player is red", func(t *testing.T) {
		a := &scripted{name: "a", moves: []game.Move{{X: 0, Y: 0}, {X: 1, Y: 0}}}
		b := &scripted{name: "b", moves: []game.Move{{X: 0, Y: 1}}}

		result, err := NewLocal(2, a, b).Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "a", result.Winner, "Red connects the top and bottom rows")
		require.Equal(t, game.Red, result.Colour)
		require.Equal(t, 0, result.WinnerIndex)
		require.Nil(t, a.seen[0], "The opener sees no previous move")
		require.Equal(t, game.Move{X: 0, Y: 1}, *a.seen[1])
	})

	t.Run("a swap exchanges colours", func(t *testing.T) {
		// After b swaps, b is red and owns (0,0); a moves next as blue.
		a := &scripted{name: "a", moves: []game.Move{{X: 0, Y: 0}, {X: 1, Y: 1}}}
		b := &scripted{name: "b", moves: []game.Move{game.Swap, {X: 1, Y: 0}}}

		result, err := NewLocal(2, a, b).Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "b", result.Winner, "b completes red's column with the swapped stone")
		require.Equal(t, game.Red, result.Colour)
		require.True(t, result.Game.Swapped)
		require.True(t, a.seen[1].IsSwap(), "a is told about the swap")
		require.Equal(t, game.Blue, result.Board.Colour(game.Move{X: 1, Y: 1}), "a plays blue after the swap")
	})

	t.Run("a swap after turn 2 forfeits", func(t *testing.T) {
		a := &scripted{name: "a", moves: []game.Move{{X: 0, Y: 0}, game.Swap}}
		b := &scripted{name: "b", moves: []game.Move{{X: 1, Y: 1}}}

		result, err := NewLocal(3, a, b).Run(context.Background())

		require.NoError(t, err)
		require.ErrorIs(t, result.Forfeit, ErrIllegalMove)
		require.Equal(t, "b", result.Winner)
	})

	t.Run("playing an occupied cell forfeits", func(t *testing.T) {
		a := &scripted{name: "a", moves: []game.Move{{X: 0, Y: 0}}}
		b := &scripted{name: "b", moves: []game.Move{{X: 0, Y: 0}}}

		result, err := NewLocal(3, a, b).Run(context.Background())

		require.NoError(t, err)
		require.ErrorIs(t, result.Forfeit, ErrIllegalMove)
		require.Equal(t, "a", result.Winner)
	})

	t.Run("a cancelled context aborts the game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewLocal(3, player.NewRandom("a", 1), player.NewRandom("b", 2)).Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("an agent game finishes without forfeits", func(t *testing.T) {
		cfg := config.Default()
		cfg.BoardSize = 5
		cfg.Budget.Iterations = 100
		cfg.Seed = 3
		hex := agent.New(game.Red, cfg, agent.WithName("mcts"))

		result, err := NewLocal(5, hex, player.NewRandom("random", 4)).Run(context.Background())

		require.NoError(t, err)
		require.NoError(t, result.Forfeit, "The agent's moves are always legal")
		require.NotEmpty(t, result.Winner)
		require.Equal(t, "search", result.Moves[0].Source, "No book move is safe from a swap on 5x5")
	})
}
