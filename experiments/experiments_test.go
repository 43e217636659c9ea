package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hexagent/config"
	"hexagent/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.BoardSize = 5
	cfg.Budget.Iterations = 60
	cfg.Seed = 11
	return cfg
}

func TestRun(t *testing.T) {
	t.Run("plays every game and writes records", func(t *testing.T) {
		exp, err := Preset("random", smallConfig(), 4, 2)
		require.NoError(t, err)
		exp.OutputDir = t.TempDir()

		summary, err := Run(context.Background(), exp)

		require.NoError(t, err)
		require.Equal(t, 4, summary.Games)
		require.LessOrEqual(t, summary.Low, summary.WinRate)
		require.GreaterOrEqual(t, summary.High, summary.WinRate)
		for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(summary.Dir, file))
			require.NoError(t, err, "%s should be written", file)
		}
	})

	t.Run("exports agent decisions", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		exp, err := Preset("rave", smallConfig(), 2, 2)
		require.NoError(t, err)
		exp.Exporter = metrics.NewPrometheus(reg)

		_, err = Run(context.Background(), exp)

		require.NoError(t, err)
		count, err := testutil.GatherAndCount(reg, "hex_agent_decisions_total")
		require.NoError(t, err)
		require.Positive(t, count, "Both agents should report decisions")
	})

	t.Run("rejects empty experiments", func(t *testing.T) {
		_, err := Run(context.Background(), Experiment{Name: "none"})

		require.Error(t, err)
	})

	t.Run("a cancelled context stops the run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exp, err := Preset("random", smallConfig(), 2, 1)
		require.NoError(t, err)

		_, err = Run(ctx, exp)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("win rate with a normal confidence interval", func(t *testing.T) {
		s := summarize([]bool{true, false, true, true})

		require.Equal(t, 3, s.WinsA)
		require.InDelta(t, 0.75, s.WinRate, 1e-9)
		require.InDelta(t, 0.75-1.96*0.2165, s.Low, 0.001)
		require.Equal(t, 1.0, s.High, "Interval is clipped to [0, 1]")
	})

	t.Run("z-value for 95 percent", func(t *testing.T) {
		require.InDelta(t, 1.96, ZVal(95), 0.001)
	})
}

func TestPreset(t *testing.T) {
	t.Run("variants differ in one feature", func(t *testing.T) {
		exp, err := Preset("rave", smallConfig(), 10, 1)

		require.NoError(t, err)
		require.True(t, exp.A.Config.Search.Rave)
		require.False(t, exp.B.Config.Search.Rave)
		require.Equal(t, 5, exp.BoardSize)
	})

	t.Run("unknown presets are rejected", func(t *testing.T) {
		_, err := Preset("telepathy", smallConfig(), 1, 1)

		require.ErrorContains(t, err, "unknown experiment")
	})
}
