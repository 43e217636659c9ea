package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectionEvaluate(t *testing.T) {
	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newSelection(1.41, 50, true, 100)

		require.Panics(t, func() {
			policy.evaluate(5, 0, 0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("without rave the score is plain UCB1", func(t *testing.T) {
		policy := newSelection(1.41, 50, false, 100)
		got := policy.evaluate(5, 10, 9, 10)

		expected := 5.0/10 + 1.41*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001, "Should compute q/n + c*sqrt(ln(N)/n)")
	})

	t.Run("zero parent visits has no exploration term", func(t *testing.T) {
		policy := newSelection(1.41, 50, false, 0)

		require.InDelta(t, 0.5, policy.evaluate(1, 2, 0, 0), 0.0001, "ln(max(1, 0)) is 0")
	})

	t.Run("rave blends the AMAF estimate", func(t *testing.T) {
		policy := newSelection(1.41, 50, true, 100)
		got := policy.evaluate(5, 10, 30, 40)

		ucb := 5.0/10 + 1.41*math.Sqrt(math.Log(100)/10.0)
		w := 40.0 / (10 + 40 + 50)
		require.InDelta(t, (1-w)*ucb+w*0.75, got, 0.0001, "Should weight AMAF by n_amaf/(n+n_amaf+k)")
	})

	t.Run("unseen AMAF moves score the neutral prior", func(t *testing.T) {
		policy := newSelection(1.41, 50, true, 100)

		require.InDelta(t, newSelection(1.41, 50, false, 100).evaluate(5, 10, 0, 0), policy.evaluate(5, 10, 0, 0), 0.0001,
			"With no AMAF visits the weight is zero")
	})

	t.Run("a strong AMAF record lifts a weak child", func(t *testing.T) {
		policy := newSelection(1.41, 50, true, 100)

		require.Greater(t, policy.evaluate(2, 10, 90, 100), policy.evaluate(2, 10, 10, 100),
			"Higher AMAF win rate should raise the score")
	})

	t.Run("AMAF influence decays with real visits", func(t *testing.T) {
		policy := newSelection(0, 50, true, 1000)

		few := policy.evaluate(0, 10, 100, 100)
		many := policy.evaluate(0, 500, 100, 100)

		require.Greater(t, few, many, "More child visits should shrink the AMAF weight")
	})
}
