// Package experiments plays repeated matches between two contenders and
// reports win rates.
package experiments

import (
	"context"
	"fmt"
	"math"

	"hexagent/agent"
	"hexagent/config"
	"hexagent/engine"
	"hexagent/experiments/metrics"
	"hexagent/game"
	"hexagent/player"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

// Contender is one side of a match-up: an MCTS agent built from Config, or the
// random baseline when Random is set.
type Contender struct {
	Name   string
	Config config.Config
	Random bool
}

type Experiment struct {
	Name        string
	Games       int
	Concurrency int
	BoardSize   int
	A, B        Contender
	// OutputDir receives CSV records when set.
	OutputDir string
	Exporter  *metrics.Prometheus
}

type Summary struct {
	Games   int
	WinsA   int
	WinRate float64 // Of contender A
	Low     float64 // 95% confidence interval
	High    float64
	Dir     string
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d wins (%.1f%%, 95%% CI %.1f%%-%.1f%%)", s.WinsA, s.Games, 100*s.WinRate, 100*s.Low, 100*s.High)
}

// Run plays exp.Games games, alternating which contender moves first, with up
// to exp.Concurrency games in flight.
func Run(ctx context.Context, exp Experiment) (Summary, error) {
	if exp.Games <= 0 {
		return Summary{}, fmt.Errorf("experiment %q needs at least one game", exp.Name)
	}
	concurrency := max(exp.Concurrency, 1)

	log.Info().Msgf("starting %s experiment: %d games of %s vs %s", exp.Name, exp.Games, exp.A.Name, exp.B.Name)

	gameRecords := make([]metrics.GameRecord, exp.Games)
	moveRecords := make([][]metrics.MoveRecord, exp.Games)
	winsA := make([]bool, exp.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < exp.Games; i++ {
		g.Go(func() error {
			// A opens the even games.
			first, second, agent1, agent2 := exp.A, exp.B, 1, 2
			if i%2 == 1 {
				first, second, agent1, agent2 = exp.B, exp.A, 2, 1
			}

			result, err := engine.NewLocal(exp.BoardSize,
				newPlayer(first, game.Red, exp.Exporter, uint64(2*i)),
				newPlayer(second, game.Blue, exp.Exporter, uint64(2*i+1)),
			).Run(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}

			winsA[i] = (result.WinnerIndex == 0) == (i%2 == 0)
			gameRecords[i] = metrics.GameRecord{ID: i + 1, Agent1: agent1, Agent2: agent2, GameMetric: result.Game}
			for _, mm := range result.Moves {
				moveRecords[i] = append(moveRecords[i], metrics.MoveRecord{Game: i + 1, MoveMetric: mm})
			}
			log.Info().Msgf("completed game %d of %d with winner: %s", i+1, exp.Games, result.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := summarize(winsA)
	log.Info().Msgf("completed %s experiment: %s", exp.Name, summary)

	if exp.OutputDir != "" {
		dir, err := writeRecords(exp, gameRecords, moveRecords)
		if err != nil {
			return summary, err
		}
		summary.Dir = dir
	}
	return summary, nil
}

func newPlayer(c Contender, colour game.Colour, exporter *metrics.Prometheus, offset uint64) engine.Player {
	if c.Random {
		return player.NewRandom(c.Name, c.Config.Seed+offset+1)
	}
	cfg := c.Config
	if cfg.Seed != 0 {
		cfg.Seed += offset
	}
	options := []agent.Option{agent.WithName(c.Name)}
	if exporter != nil {
		options = append(options, agent.WithExporter(exporter))
	}
	return agent.New(colour, cfg, options...)
}

func summarize(winsA []bool) Summary {
	s := Summary{Games: len(winsA)}
	for _, w := range winsA {
		if w {
			s.WinsA++
		}
	}
	n := float64(s.Games)
	s.WinRate = float64(s.WinsA) / n
	margin := ZVal(95) * math.Sqrt(s.WinRate*(1-s.WinRate)/n)
	s.Low = math.Max(0, s.WinRate-margin)
	s.High = math.Min(1, s.WinRate+margin)
	return s
}

// ZVal returns the two-tailed z-value for a confidence level in percent.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence/100) / 2)
}

func writeRecords(exp Experiment, games []metrics.GameRecord, moves [][]metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	configs := []metrics.AgentConfig{agentConfig(1, exp.A), agentConfig(2, exp.B)}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	var flat []metrics.MoveRecord
	for _, m := range moves {
		flat = append(flat, m...)
	}
	if err := writer.WriteMoveRecords(flat); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return writer.Dir(), nil
}

func agentConfig(id int, c Contender) metrics.AgentConfig {
	if c.Random {
		return metrics.AgentConfig{ID: id, Name: c.Name, Mode: "random"}
	}
	return metrics.AgentConfig{
		ID:          id,
		Name:        c.Name,
		Mode:        c.Config.Budget.Mode,
		Iterations:  c.Config.Budget.Iterations,
		Rave:        c.Config.Search.Rave,
		TreeReuse:   c.Config.Search.TreeReuse,
		Bridges:     c.Config.Bridges,
		Exploration: c.Config.Search.Exploration,
		RaveBias:    c.Config.Search.RaveBias,
	}
}
