// Package config loads agent settings from defaults, an optional YAML or JSON
// file, and HEX_* environment variables, in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"hexagent/budget"
	"hexagent/meta"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// BoardSize is the side length N of the N×N board.
	BoardSize int `json:"board_size" yaml:"board_size"`

	// Search contains MCTS settings.
	Search SearchConfig `json:"search" yaml:"search"`

	// Budget contains per-move and per-match limits.
	Budget BudgetConfig `json:"budget" yaml:"budget"`

	// Bridges enables the bridge tracker; EdgeBridges also links second-row
	// stones to their goal edge.
	Bridges     bool `json:"bridges" yaml:"bridges"`
	EdgeBridges bool `json:"edge_bridges" yaml:"edge_bridges"`

	// Seed fixes the random source; zero seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

type SearchConfig struct {
	Exploration float64 `json:"exploration" yaml:"exploration"`
	RaveBias    float64 `json:"rave_bias" yaml:"rave_bias"`
	Rave        bool    `json:"rave" yaml:"rave"`
	TreeReuse   bool    `json:"tree_reuse" yaml:"tree_reuse"`
}

type BudgetConfig struct {
	Mode           string        `json:"mode" yaml:"mode"`
	Iterations     int           `json:"iterations" yaml:"iterations"`
	IterationScale float64       `json:"iteration_scale" yaml:"iteration_scale"`
	TotalTime      time.Duration `json:"total_time" yaml:"total_time"`
	Reserve        time.Duration `json:"reserve" yaml:"reserve"`
	Fraction       float64       `json:"fraction" yaml:"fraction"`
	MinPerMove     time.Duration `json:"min_per_move" yaml:"min_per_move"`
	MaxPerMove     time.Duration `json:"max_per_move" yaml:"max_per_move"`
}

func Default() Config {
	return Config{
		BoardSize: meta.BOARD_SIZE,
		Search: SearchConfig{
			Exploration: meta.EXPLORATION,
			RaveBias:    meta.RAVE_BIAS,
			Rave:        true,
			TreeReuse:   true,
		},
		Budget: BudgetConfig{
			Mode:           string(budget.FixedIterations),
			IterationScale: 0.5,
			TotalTime:      300 * time.Second,
			Reserve:        2 * time.Second,
			Fraction:       0.08,
			MinPerMove:     10 * time.Millisecond,
			MaxPerMove:     20 * time.Second,
		},
		Bridges:     true,
		EdgeBridges: true,
		LogLevel:    "info",
	}
}

// Load returns defaults overlaid with the file at path (if any) and the
// environment, and validates the result.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadConfigFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first (also handles JSON since YAML is a superset)
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(config *Config) {
	if v := os.Getenv("HEX_BOARD_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.BoardSize = i
		}
	}
	if v := os.Getenv("HEX_EXPLORATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Search.Exploration = f
		}
	}
	if v := os.Getenv("HEX_RAVE_BIAS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Search.RaveBias = f
		}
	}
	if v := os.Getenv("HEX_RAVE"); v != "" {
		config.Search.Rave = v == "true" || v == "1"
	}
	if v := os.Getenv("HEX_TREE_REUSE"); v != "" {
		config.Search.TreeReuse = v == "true" || v == "1"
	}

	if v := os.Getenv("HEX_BUDGET_MODE"); v != "" {
		config.Budget.Mode = v
	}
	if v := os.Getenv("HEX_ITERATIONS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Budget.Iterations = i
		}
	}
	if v := os.Getenv("HEX_TOTAL_TIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Budget.TotalTime = d
		}
	}
	if v := os.Getenv("HEX_RESERVE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Budget.Reserve = d
		}
	}
	if v := os.Getenv("HEX_MIN_PER_MOVE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Budget.MinPerMove = d
		}
	}
	if v := os.Getenv("HEX_MAX_PER_MOVE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Budget.MaxPerMove = d
		}
	}
	if v := os.Getenv("HEX_TIME_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Budget.Fraction = f
		}
	}

	if v := os.Getenv("HEX_BRIDGES"); v != "" {
		config.Bridges = v == "true" || v == "1"
	}
	if v := os.Getenv("HEX_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("HEX_SEED"); v != "" {
		if i, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Seed = i
		}
	}
}

func (c Config) Validate() error {
	if c.BoardSize < 2 {
		return fmt.Errorf("board_size must be >= 2")
	}
	if c.Search.Exploration < 0 {
		return fmt.Errorf("exploration must be >= 0")
	}
	if c.Search.RaveBias <= 0 {
		return fmt.Errorf("rave_bias must be > 0")
	}
	if _, err := budget.ParseMode(c.Budget.Mode); err != nil {
		return err
	}
	if c.Budget.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0")
	}
	if c.Budget.Iterations == 0 && c.Budget.IterationScale <= 0 {
		return fmt.Errorf("iteration_scale must be > 0 when iterations is unset")
	}
	if c.Budget.TotalTime <= 0 {
		return fmt.Errorf("total_time must be > 0")
	}
	if c.Budget.Reserve < 0 || c.Budget.Reserve >= c.Budget.TotalTime {
		return fmt.Errorf("reserve must be in [0, total_time)")
	}
	if c.Budget.Fraction <= 0 || c.Budget.Fraction > 1 {
		return fmt.Errorf("fraction must be in (0, 1]")
	}
	if c.Budget.MinPerMove <= 0 || c.Budget.MaxPerMove < c.Budget.MinPerMove {
		return fmt.Errorf("per-move limits must satisfy 0 < min_per_move <= max_per_move")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ToBudgetConfig converts the budget section for the budget controller.
func (c Config) ToBudgetConfig() budget.Config {
	mode, _ := budget.ParseMode(c.Budget.Mode)
	return budget.Config{
		Mode:           mode,
		Iterations:     c.Budget.Iterations,
		IterationScale: c.Budget.IterationScale,
		TotalTime:      c.Budget.TotalTime,
		Reserve:        c.Budget.Reserve,
		Fraction:       c.Budget.Fraction,
		MinPerMove:     c.Budget.MinPerMove,
		MaxPerMove:     c.Budget.MaxPerMove,
	}
}

// ApplyLogLevel sets the global zerolog level. Unknown levels leave it alone.
func (c Config) ApplyLogLevel() {
	if level, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
}
