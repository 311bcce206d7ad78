package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// EndReason explains why a session finished.
type EndReason string

const (
	EndQuit        EndReason = "quit"
	EndBoardFull   EndReason = "board_full"
	EndInputClosed EndReason = "input_closed"
	EndCancelled   EndReason = "cancelled"
	EndCorrupted   EndReason = "corrupted"
)

// Result summarizes a finished session.
type Result struct {
	Reason   EndReason
	Stats    Stats
	Duration time.Duration
	Final    Snapshot
}

// Session runs the gravity and input loops against one engine.
type Session struct {
	engine  *Engine
	gravity *Gravity
	input   *Dispatcher
}

// NewSession creates a session reading player input from src.
func NewSession(e *Engine, src InputSource) *Session {
	return &Session{
		engine:  e,
		gravity: NewGravity(e, e.cfg.Gravity),
		input:   NewDispatcher(e, src),
	}
}

// Engine returns the engine driven by the session.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Run starts both loops and blocks until the input loop ends or either loop
// reports a corrupted state. The gravity loop is always cancelled and joined
// before Run returns.
func (s *Session) Run(parent context.Context) (Result, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	start := time.Now()
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := s.gravity.Run(ctx); err != nil {
			errs <- err
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.input.Run(ctx); err != nil {
			errs <- err
		}
		cancel()
	}()
	wg.Wait()
	close(errs)

	var runErr error
	for err := range errs {
		if runErr == nil {
			runErr = err
		}
	}

	final := s.engine.Snapshot()
	res := Result{
		Stats:    final.Stats,
		Duration: time.Since(start),
		Final:    final,
	}

	switch {
	case errors.Is(runErr, ErrStateCorrupted):
		res.Reason = EndCorrupted
	case final.BoardFull:
		res.Reason = EndBoardFull
	case final.Phase == PhaseQuit:
		res.Reason = EndQuit
	case parent.Err() != nil:
		res.Reason = EndCancelled
	default:
		res.Reason = EndInputClosed
	}

	return res, runErr
}
