// Package waiter detects when a streamed value stops changing.
// It polls a caller-supplied sample function until the same value has been observed
// for a contiguous stability window, or until the overall deadline passes.
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a wait configuration has non-positive durations.
var ErrInvalidConfig = errors.New("invalid wait config")

// Outcome tells why a wait finished.
type Outcome string

// Outcome values.
const (
	OutcomeStable   Outcome = "stable"    // value repeated for the whole stability window
	OutcomeTimedOut Outcome = "timed_out" // deadline passed or context canceled, value is best-effort
)

// SampleFunc returns the current value of the observed target.
type SampleFunc func(ctx context.Context) (string, error)

// Config holds polling parameters.
// StableDuration should not exceed MaxWait, otherwise the wait always times out.
type Config struct {
	PollInterval   time.Duration // delay between samples
	StableDuration time.Duration // how long the value must stay unchanged
	MaxWait        time.Duration // overall deadline
}

// Validate checks that all durations are positive.
func (c Config) Validate() error {
	switch {
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive, got %v", ErrInvalidConfig, c.PollInterval)
	case c.StableDuration <= 0:
		return fmt.Errorf("%w: stable duration must be positive, got %v", ErrInvalidConfig, c.StableDuration)
	case c.MaxWait <= 0:
		return fmt.Errorf("%w: max wait must be positive, got %v", ErrInvalidConfig, c.MaxWait)
	}
	return nil
}

// Result is the value observed last and the reason the wait ended.
type Result struct {
	Outcome Outcome
	Value   string
	Polls   int           // number of samples taken
	Elapsed time.Duration // time from the first sample to return
}

// Stable reports whether the value settled before the deadline.
func (r Result) Stable() bool {
	return r.Outcome == OutcomeStable
}

// Waiter polls a sample function until its value stabilizes.
// A Waiter keeps no state between calls and is safe for concurrent use.
type Waiter struct {
	cfg   Config
	clock Clock
}

// New makes a Waiter for the given config. Returns an error wrapping ErrInvalidConfig for bad durations.
func New(cfg Config) (*Waiter, error) {
	return NewWithClock(cfg, wallClock{})
}

// NewWithClock makes a Waiter driven by a custom clock (for testing).
func NewWithClock(cfg Config, clock Clock) (*Waiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = wallClock{}
	}
	return &Waiter{cfg: cfg, clock: clock}, nil
}

// Config returns the waiter's polling parameters.
func (w *Waiter) Config() Config {
	return w.cfg
}

// WaitForStable is a shortcut for New(cfg) followed by Wait.
func WaitForStable(ctx context.Context, sample SampleFunc, cfg Config) (Result, error) {
	w, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return w.Wait(ctx, sample)
}

// Wait samples until the value stays the same for StableDuration or MaxWait passes.
// Timeout is not an error: the last observed value is returned with OutcomeTimedOut.
// Context cancellation is handled the same way as a timeout, also when sample fails because of it.
// Other errors from sample are returned as-is and stop the wait immediately.
func (w *Waiter) Wait(ctx context.Context, sample SampleFunc) (Result, error) {
	start := w.clock.Now()
	res := Result{Outcome: OutcomeTimedOut}

	var (
		last        string
		seen        bool // first sample has nothing to compare against
		stabilizing bool
		stableSince time.Time
	)

	for {
		if ctx.Err() != nil {
			res.Elapsed = w.clock.Now().Sub(start)
			return res, nil
		}

		current, err := sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// canceled while sampling, keep the value seen last
				res.Elapsed = w.clock.Now().Sub(start)
				return res, nil
			}
			return Result{}, err
		}
		res.Polls++
		res.Value = current

		now := w.clock.Now()
		if seen && current == last {
			if !stabilizing {
				stabilizing, stableSince = true, now
			} else if now.Sub(stableSince) >= w.cfg.StableDuration {
				res.Outcome, res.Elapsed = OutcomeStable, now.Sub(start)
				return res, nil
			}
		} else {
			stabilizing = false
			last, seen = current, true
		}

		if now.Sub(start) >= w.cfg.MaxWait {
			res.Elapsed = now.Sub(start)
			return res, nil
		}

		select {
		case <-ctx.Done():
			res.Elapsed = w.clock.Now().Sub(start)
			return res, nil
		case <-w.clock.After(w.cfg.PollInterval):
		}
	}
}
