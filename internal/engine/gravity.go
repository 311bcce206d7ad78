package engine

import (
	"context"
	"time"
)

// Gravity drives the engine from a fixed-interval ticker.
type Gravity struct {
	engine   *Engine
	interval time.Duration
}

// NewGravity creates a scheduler ticking every interval.
// A non-positive interval falls back to the engine's configured gravity.
func NewGravity(e *Engine, interval time.Duration) *Gravity {
	if interval <= 0 {
		interval = e.cfg.Gravity
	}
	if interval <= 0 {
		interval = DefaultConfig().Gravity
	}
	return &Gravity{engine: e, interval: interval}
}

// Interval returns the tick interval.
func (g *Gravity) Interval() time.Duration {
	return g.interval
}

// Run ticks until ctx is cancelled or the game stops falling. It returns an
// error only when the engine state is corrupted.
func (g *Gravity) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			out, err := g.engine.Tick()
			if err != nil {
				return err
			}
			if out == OutcomeBoardFull || out == OutcomeIgnored {
				// Ignored means the game already left PhaseFalling.
				return nil
			}
		}
	}
}
