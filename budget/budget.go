// Package budget turns the turn number and the shared time bank into a search
// budget for one move.
package budget

import (
	"fmt"
	"sync"
	"time"

	"hexagent/game"
)

type Mode string

const (
	FixedIterations Mode = "iterations"
	Deadline        Mode = "deadline"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case FixedIterations, Deadline:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown budget mode %q", s)
}

// Config holds the budget knobs. Iterations overrides the turn schedule when
// positive; IterationScale multiplies the schedule otherwise.
type Config struct {
	Mode           Mode
	Iterations     int
	IterationScale float64
	TotalTime      time.Duration
	Reserve        time.Duration
	Fraction       float64
	MinPerMove     time.Duration
	MaxPerMove     time.Duration
}

// Budget bounds one search. Exactly one of Iterations and Deadline is set
// unless Panic is set, in which case no search should run at all.
type Budget struct {
	Iterations int
	Deadline   time.Time
	Panic      bool
}

// Exhausted reports whether another iteration may start. It is checked only
// between iterations.
func (b Budget) Exhausted(done int, now time.Time) bool {
	if b.Panic {
		return true
	}
	if b.Iterations > 0 {
		return done >= b.Iterations
	}
	return !now.Before(b.Deadline)
}

func (b Budget) String() string {
	switch {
	case b.Panic:
		return "panic"
	case b.Iterations > 0:
		return fmt.Sprintf("%d iterations", b.Iterations)
	}
	return "until " + b.Deadline.Format(time.StampMilli)
}

// TimeBank is the wall-clock allowance shared by all moves of one match.
type TimeBank struct {
	mu    sync.Mutex
	total time.Duration
	used  time.Duration
}

func NewTimeBank(total time.Duration) *TimeBank {
	return &TimeBank{total: total}
}

func (t *TimeBank) Charge(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.used += d
}

func (t *TimeBank) Used() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

func (t *TimeBank) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - t.used
}

type Controller struct {
	config Config
	bank   *TimeBank
	now    func() time.Time
}

func NewController(config Config, bank *TimeBank) *Controller {
	return &Controller{config: config, bank: bank, now: time.Now}
}

func (c *Controller) Bank() *TimeBank {
	return c.bank
}

// Plan returns the budget for the given turn (1-based) on board.
func (c *Controller) Plan(turn int, board *game.Board) Budget {
	remaining := c.bank.Remaining()
	if remaining <= c.config.Reserve {
		return Budget{Panic: true}
	}

	if c.config.Mode == Deadline {
		return Budget{Deadline: c.now().Add(c.allowance(remaining))}
	}

	if c.config.Iterations > 0 {
		return Budget{Iterations: c.config.Iterations}
	}
	n := int(float64(Schedule(turn, board.EmptyRatio())) * c.config.IterationScale)
	return Budget{Iterations: max(n, 1)}
}

// allowance is remaining*fraction clamped to [MinPerMove, MaxPerMove] and never
// more than what is left above the reserve.
func (c *Controller) allowance(remaining time.Duration) time.Duration {
	a := time.Duration(float64(remaining) * c.config.Fraction)
	a = max(a, c.config.MinPerMove)
	a = min(a, c.config.MaxPerMove)
	return min(a, remaining-c.config.Reserve)
}

// Schedule is the coarse iteration count for a turn: generous in the opening,
// tapering as the board fills.
func Schedule(turn int, emptyRatio float64) int {
	switch {
	case turn <= 1:
		return 15000
	case turn <= 4:
		return 12500
	case turn <= 6:
		return 8750
	case turn <= 8:
		return 5625
	case turn <= 10:
		return 3750
	case emptyRatio > 0.5:
		return 2500
	case emptyRatio > 0.35:
		return 1500
	}
	return 1000
}
