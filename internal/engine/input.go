package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// InputSource yields player actions. Next blocks until an action is
// available, ctx is done, or the source fails. A closed source returns io.EOF.
type InputSource interface {
	Next(ctx context.Context) (Action, error)
}

// ChanSource is an InputSource fed from a channel. Closing the channel
// closes the source.
type ChanSource <-chan Action

// Next returns the next action from the channel.
func (c ChanSource) Next(ctx context.Context) (Action, error) {
	select {
	case <-ctx.Done():
		return ActionNone, ctx.Err()
	case a, ok := <-c:
		if !ok {
			return ActionNone, io.EOF
		}
		return a, nil
	}
}

// Retry delays after failed reads. The delay doubles per consecutive
// failure and resets after a successful read.
const (
	minRetryDelay = 10 * time.Millisecond
	maxRetryDelay = time.Second
)

// Dispatcher is the foreground loop that turns input into move attempts.
type Dispatcher struct {
	engine *Engine
	source InputSource
	logger *log.Logger
}

// NewDispatcher creates a dispatcher reading from src.
func NewDispatcher(e *Engine, src InputSource) *Dispatcher {
	return &Dispatcher{engine: e, source: src, logger: e.logger}
}

// nextDelay returns the wait after the given number of consecutive failures.
func nextDelay(failures int) time.Duration {
	d := minRetryDelay
	for i := 1; i < failures && d < maxRetryDelay; i++ {
		d *= 2
	}
	return min(d, maxRetryDelay)
}

// Run reads actions until the player quits, the source closes or ctx is
// cancelled. Read failures are logged and retried after a growing delay.
// The only error returned is ErrStateCorrupted.
func (d *Dispatcher) Run(ctx context.Context) error {
	failures := 0
	for {
		a, err := d.source.Next(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, io.EOF):
			d.logger.Debug("input closed")
			return nil
		case err != nil:
			failures++
			if failures == 1 {
				d.logger.Debug("input read failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(nextDelay(failures)):
			}
			continue
		}
		if failures > 0 {
			d.logger.Debug("input recovered", "failures", failures)
			failures = 0
		}

		switch a {
		case ActionMoveLeft, ActionMoveRight, ActionMoveDown, ActionQuit:
		default:
			continue
		}

		out, err := d.engine.Apply(a)
		if err != nil {
			return err
		}
		if out == OutcomeQuit {
			return nil
		}
	}
}
