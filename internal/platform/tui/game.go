// Package tui provides the Bubble Tea integration for blockfall.
// It connects an engine session to the terminal: keys become engine
// actions and committed snapshots become frames.
package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/engine"
)

// inputBuffer is how many key presses may wait for the input loop.
const inputBuffer = 32

// Game is one engine session driven by a terminal.
type Game struct {
	engine  *engine.Engine
	session *engine.Session
	frames  *feed
	actions chan engine.Action
	logger  *log.Logger

	done   chan struct{}
	result engine.Result
	err    error
}

// NewGame creates an engine for cfg whose renderer and input source are
// owned by the terminal model.
func NewGame(cfg engine.Config, logger *log.Logger, opts ...engine.Option) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	g := &Game{
		frames:  newFeed(),
		actions: make(chan engine.Action, inputBuffer),
		logger:  logger,
		done:    make(chan struct{}),
	}

	all := make([]engine.Option, 0, len(opts)+2)
	all = append(all, opts...)
	all = append(all, engine.WithRenderer(g.frames), engine.WithLogger(logger))
	g.engine = engine.New(cfg, all...)
	g.session = engine.NewSession(g.engine, engine.ChanSource(g.actions))
	return g
}

// Engine returns the engine behind the game.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Start runs the session in the background until the player quits or
// ctx is cancelled.
func (g *Game) Start(ctx context.Context) {
	go func() {
		defer close(g.done)
		g.result, g.err = g.session.Run(ctx)
		if g.err != nil {
			g.logger.Error("session failed", "error", g.err)
			return
		}
		g.logger.Info("session ended", "reason", g.result.Reason, "rows", g.result.Stats.RowsCleared)
	}()
}

// Done is closed once the session has finished.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// Wait blocks until the session finishes and returns its result.
func (g *Game) Wait() (engine.Result, error) {
	<-g.done
	return g.result, g.err
}

// send queues an action without blocking the UI. It reports false when
// the queue is full.
func (g *Game) send(a engine.Action) bool {
	select {
	case g.actions <- a:
		return true
	default:
		return false
	}
}

// sendWait queues an action, giving up when the session ends.
func (g *Game) sendWait(a engine.Action) {
	select {
	case g.actions <- a:
	case <-g.done:
	}
}

// feed keeps only the newest snapshot for the UI. Render never blocks
// the engine's loops.
type feed struct {
	ch chan engine.Snapshot
}

func newFeed() *feed {
	return &feed{ch: make(chan engine.Snapshot, 1)}
}

// Render implements engine.Renderer.
func (f *feed) Render(s engine.Snapshot) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		// Replace the pending frame unless it is newer
		select {
		case old := <-f.ch:
			if old.Seq > s.Seq {
				s = old
			}
		default:
		}
	}
}

// next blocks until a frame is available or stop is closed.
func (f *feed) next(stop <-chan struct{}) (engine.Snapshot, bool) {
	select {
	case s := <-f.ch:
		return s, true
	case <-stop:
		return engine.Snapshot{}, false
	}
}
