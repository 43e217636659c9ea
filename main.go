package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"hexagent/agent"
	"hexagent/config"
	"hexagent/experiments"
	"hexagent/experiments/metrics"
	"hexagent/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	metricsAddr string

	rootCmd = &cobra.Command{
		Use:   "hexagent",
		Short: "MCTS/RAVE agent for Hex",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
			return nil
		},
	}

	matchConfigA string
	matchConfigB string
	matchRandomB bool
	games        int
	concurrency  int
	outputDir    string
	matchCmd     = &cobra.Command{
		Use:   "match",
		Short: "Play repeated games between two agent configurations",
		RunE:  runMatch,
	}
	experimentCmd = &cobra.Command{
		Use:   "experiment [name]",
		Short: "Play a preset match-up between the configured agent and a variant",
		Long:  fmt.Sprintf("Available experiments: %v", experiments.PresetNames()),
		Args:  cobra.ExactArgs(1),
		RunE:  runExperiment,
	}

	boardRows  string
	turn       int
	colourName string
	oppMove    string
	moveCmd    = &cobra.Command{
		Use:   "move",
		Short: "Choose a single move for a given position",
		RunE:  runMove,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "agent config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	for _, cmd := range []*cobra.Command{matchCmd, experimentCmd} {
		cmd.Flags().IntVar(&games, "games", 10, "number of games")
		cmd.Flags().IntVar(&concurrency, "concurrency", 1, "games played at once")
		cmd.Flags().StringVar(&outputDir, "out", "", "directory for CSV records")
	}
	matchCmd.Flags().StringVar(&matchConfigA, "a", "", "config file for agent A (defaults to --config)")
	matchCmd.Flags().StringVar(&matchConfigB, "b", "", "config file for agent B (defaults to --config)")
	matchCmd.Flags().BoolVar(&matchRandomB, "random-b", false, "play agent A against the random baseline")

	moveCmd.Flags().StringVar(&boardRows, "board", "", "board rows of R, B and '.', separated by '/' or newlines")
	moveCmd.Flags().IntVar(&turn, "turn", 1, "turn number, starting at 1")
	moveCmd.Flags().StringVar(&colourName, "colour", "red", "colour to move")
	moveCmd.Flags().StringVar(&oppMove, "opp", "", "opponent's last move as x,y or swap")
	_ = moveCmd.MarkFlagRequired("board")

	rootCmd.AddCommand(matchCmd, experimentCmd, moveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = configPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyLogLevel()
	return cfg, nil
}

// serveMetrics starts the metrics endpoint when requested and returns the
// exporter agents should report to.
func serveMetrics() *metrics.Prometheus {
	if metricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	exporter := metrics.NewPrometheus(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", metricsAddr).Msg("serving metrics")
	return exporter
}

func runExperimentAndReport(cmd *cobra.Command, exp experiments.Experiment) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	exp.OutputDir = outputDir
	exp.Exporter = serveMetrics()
	summary, err := experiments.Run(ctx, exp)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s against %s\n", exp.Name, exp.A.Name, summary, exp.B.Name)
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfgA, err := loadConfig(matchConfigA)
	if err != nil {
		return fmt.Errorf("agent A: %w", err)
	}
	cfgB, err := loadConfig(matchConfigB)
	if err != nil {
		return fmt.Errorf("agent B: %w", err)
	}
	if cfgA.BoardSize != cfgB.BoardSize {
		return fmt.Errorf("board sizes differ: %d vs %d", cfgA.BoardSize, cfgB.BoardSize)
	}

	exp := experiments.Experiment{
		Name:        "match",
		Games:       games,
		Concurrency: concurrency,
		BoardSize:   cfgA.BoardSize,
		A:           experiments.Contender{Name: "a", Config: cfgA},
		B:           experiments.Contender{Name: "b", Config: cfgB, Random: matchRandomB},
	}
	return runExperimentAndReport(cmd, exp)
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	exp, err := experiments.Preset(args[0], cfg, games, concurrency)
	if err != nil {
		return err
	}
	return runExperimentAndReport(cmd, exp)
}

func runMove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	board, err := game.ParseBoard(boardRows)
	if err != nil {
		return err
	}
	colour, err := game.ParseColour(colourName)
	if err != nil {
		return err
	}
	var opp *game.Move
	if oppMove != "" {
		m, err := game.ParseMove(oppMove)
		if err != nil {
			return err
		}
		opp = &m
	}

	a := agent.New(colour, cfg, agent.WithExporter(serveMetrics()))
	move, err := a.SelectMove(cmd.Context(), turn, board, opp)
	if err != nil {
		return err
	}
	metric := a.LastMetric()
	log.Info().Str("source", metric.Source).Int("episodes", metric.Episodes).Dur("took", metric.Duration).Msg("decided")
	fmt.Fprintln(cmd.OutOrStdout(), move)
	return nil
}
