package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/blocks"
	"github.com/vovakirdan/blockfall/internal/field"
)

// cycle returns a Randomizer that repeats kinds in order.
func cycle(kinds ...blocks.Kind) Randomizer {
	i := 0
	return RandomizerFunc(func() blocks.Kind {
		k := kinds[i%len(kinds)]
		i++
		return k
	})
}

type recorder struct {
	events []Event
}

func (r *recorder) Observe(ev Event) {
	r.events = append(r.events, ev)
}

func newEngine(cfg Config, kinds ...blocks.Kind) *Engine {
	return New(cfg, WithRandomizer(cycle(kinds...)))
}

func TestNewSpawnsAtTopCenter(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindT)
	snap := e.Snapshot()

	assert.Equal(t, field.Position{X: 4, Y: 0}, snap.Pos)
	assert.Equal(t, blocks.KindT, snap.Kind)
	assert.Equal(t, PhaseFalling, snap.Phase)
	assert.Equal(t, uint64(0), snap.Seq)
	assert.Equal(t, 0, snap.Field.SettledCount())
}

func TestNewClampsFieldSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = -3, -1

	var e *Engine
	require.NotPanics(t, func() { e = newEngine(cfg, blocks.KindO) })

	assert.Equal(t, MinSize, e.Config().Width)
	assert.Equal(t, MinSize, e.Config().Height)
	snap := e.Snapshot()
	assert.Equal(t, MinSize, snap.Field.Width())
	assert.Equal(t, MinSize, snap.Field.Height())
	assert.Equal(t, PhaseFalling, snap.Phase)
}

func TestGravityScenarioOBlock(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindO)
	spawn := e.Snapshot().Pos

	for i := 1; i <= 18; i++ {
		out, err := e.Tick()
		require.NoError(t, err)
		require.Equal(t, OutcomeMoved, out, "tick %d", i)
		assert.Equal(t, spawn.Y+i, e.Snapshot().Pos.Y)
	}

	out, err := e.Tick()
	require.NoError(t, err)
	assert.Equal(t, OutcomeLocked, out)

	snap := e.Snapshot()
	assert.Equal(t, spawn, snap.Pos, "new block starts at the spawn anchor")
	assert.Equal(t, PhaseFalling, snap.Phase)
	assert.Equal(t, 0, snap.Stats.RowsCleared)
	assert.Equal(t, 1, snap.Stats.Locked)
	assert.Equal(t, 19, snap.Stats.Ticks)
	assert.Equal(t, 4, snap.Field.SettledCount())
	for _, rc := range [][2]int{{19, 5}, {19, 6}, {20, 5}, {20, 6}} {
		assert.True(t, snap.Field.Occupied(rc[0], rc[1]), "cell %v", rc)
	}
}

func TestMovesCommitWhenFree(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindO)

	out, err := e.Move(ActionMoveLeft)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, out)

	out, err = e.Move(ActionMoveRight)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, out)

	out, err = e.Move(ActionMoveDown)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, out)

	snap := e.Snapshot()
	assert.Equal(t, field.Position{X: 4, Y: 1}, snap.Pos)
	assert.Equal(t, 3, snap.Stats.Moves)
	assert.Equal(t, uint64(3), snap.Seq)
}

func TestRejectedMovesLeaveStateIdentical(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindO)

	// Walk into the left wall.
	for {
		out, err := e.Move(ActionMoveLeft)
		require.NoError(t, err)
		if out == OutcomeRejected {
			break
		}
	}
	before := e.Snapshot()
	out, err := e.Move(ActionMoveLeft)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, out)
	after := e.Snapshot()
	assert.True(t, before.SameState(after))
	assert.Equal(t, before.Seq, after.Seq)

	// And into the right wall.
	for {
		out, err := e.Move(ActionMoveRight)
		require.NoError(t, err)
		if out == OutcomeRejected {
			break
		}
	}
	before = e.Snapshot()
	_, err = e.Move(ActionMoveRight)
	require.NoError(t, err)
	assert.True(t, before.SameState(e.Snapshot()))

	// Down is rejected at the floor; only gravity locks.
	for {
		out, err := e.Move(ActionMoveDown)
		require.NoError(t, err)
		if out == OutcomeRejected {
			break
		}
	}
	before = e.Snapshot()
	out, err = e.Move(ActionMoveDown)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, out)
	assert.True(t, before.SameState(e.Snapshot()))
	assert.Equal(t, 0, e.Snapshot().Stats.Locked)
}

func TestUnknownActionIgnored(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindS)
	before := e.Snapshot()

	out, err := e.Apply(ActionNone)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
	assert.True(t, before.SameState(e.Snapshot()))
}

func TestLockClearsRow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 6
	e := newEngine(cfg, blocks.KindI)

	drop := func(moves ...Action) Outcome {
		for _, m := range moves {
			out, err := e.Move(m)
			require.NoError(t, err)
			require.Equal(t, OutcomeMoved, out)
		}
		for range 100 {
			out, err := e.Tick()
			require.NoError(t, err)
			if out != OutcomeMoved {
				return out
			}
		}
		t.Fatal("block never locked")
		return OutcomeIgnored
	}

	assert.Equal(t, OutcomeLocked, drop(ActionMoveLeft, ActionMoveLeft))
	assert.Equal(t, 4, e.Snapshot().Field.SettledCount())

	assert.Equal(t, OutcomeLocked, drop(ActionMoveRight, ActionMoveRight))
	snap := e.Snapshot()
	assert.Equal(t, 1, snap.Stats.RowsCleared)
	assert.Equal(t, 2, snap.Stats.Locked)
	assert.Equal(t, 0, snap.Field.SettledCount())
}

func TestSpawnOnFullBoardEndsGame(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindO)

	var out Outcome
	var err error
	for range 1000 {
		out, err = e.Tick()
		require.NoError(t, err)
		if out == OutcomeBoardFull {
			break
		}
	}
	require.Equal(t, OutcomeBoardFull, out)

	snap := e.Snapshot()
	assert.Equal(t, PhaseBoardFull, snap.Phase)
	assert.True(t, snap.BoardFull)
	assert.Equal(t, 10, snap.Stats.Locked)
	assert.False(t, snap.Active(1, 5), "a block that failed to spawn is not drawn")

	for _, a := range []Action{ActionMoveLeft, ActionMoveRight, ActionMoveDown, ActionTick} {
		out, err := e.Apply(a)
		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, out, "action %s", a)
	}
	assert.True(t, snap.SameState(e.Snapshot()))

	require.NoError(t, e.Quit())
	snap = e.Snapshot()
	assert.Equal(t, PhaseQuit, snap.Phase)
	assert.True(t, snap.BoardFull)
}

func TestQuitIsTerminal(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindL)

	out, err := e.Apply(ActionQuit)
	require.NoError(t, err)
	assert.Equal(t, OutcomeQuit, out)

	for _, a := range []Action{ActionMoveLeft, ActionTick, ActionQuit} {
		out, err := e.Apply(a)
		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, out)
	}
}

func TestSpawnDrawsFromRandomizer(t *testing.T) {
	e := newEngine(DefaultConfig(), blocks.KindO, blocks.KindO, blocks.KindI, blocks.KindZ)

	lockNext := func() {
		for range 100 {
			out, err := e.Tick()
			require.NoError(t, err)
			if out == OutcomeLocked {
				return
			}
		}
		t.Fatal("block never locked")
	}

	assert.Equal(t, blocks.KindO, e.Snapshot().Kind)
	lockNext()
	assert.Equal(t, blocks.KindO, e.Snapshot().Kind, "same kind may repeat")
	lockNext()
	assert.Equal(t, blocks.KindI, e.Snapshot().Kind)
	lockNext()
	snap := e.Snapshot()
	assert.Equal(t, blocks.KindZ, snap.Kind)
	assert.Equal(t, snap.Field.Spawn(), snap.Pos)
}

func TestRandomizerIsUniform(t *testing.T) {
	r := NewRandomizer(42)
	const draws = 70000
	counts := make(map[blocks.Kind]int)
	for range draws {
		k := r.Next()
		require.True(t, k.Valid())
		counts[k]++
	}

	require.Len(t, counts, blocks.Count)
	expected := draws / blocks.Count
	for k, n := range counts {
		assert.InDelta(t, expected, n, float64(expected)*0.05, "kind %s", k)
	}
}

func TestRandomizerSeedIsDeterministic(t *testing.T) {
	a, b := NewRandomizer(99), NewRandomizer(99)
	for range 50 {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestRendererGetsCommittedSnapshots(t *testing.T) {
	var got []Snapshot
	e := New(DefaultConfig(),
		WithRandomizer(cycle(blocks.KindO)),
		WithRenderer(RendererFunc(func(s Snapshot) { got = append(got, s) })),
	)

	_, err := e.Tick()
	require.NoError(t, err)
	for range 10 {
		_, err = e.Move(ActionMoveLeft)
		require.NoError(t, err)
	}

	// One tick plus four committed left moves; rejected moves are not drawn.
	require.Len(t, got, 5)
	for i, s := range got {
		assert.Equal(t, uint64(i+1), s.Seq)
	}
	assert.Equal(t, 1, got[0].Pos.Y)
	assert.Equal(t, 0, got[4].Pos.X)

	// Snapshots are copies.
	got[0].Field.Merge(field.Position{X: 3, Y: 10}, blocks.KindO)
	assert.Equal(t, 0, e.Snapshot().Field.SettledCount())
}

func TestPanicPoisonsEngine(t *testing.T) {
	calls := 0
	r := RandomizerFunc(func() blocks.Kind {
		calls++
		if calls > 1 {
			panic("rng exhausted")
		}
		return blocks.KindO
	})
	e := New(DefaultConfig(), WithRandomizer(r))

	var err error
	for range 100 {
		if _, err = e.Tick(); err != nil {
			break
		}
	}
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateCorrupted)
	assert.ErrorIs(t, e.Err(), ErrStateCorrupted)

	_, err = e.Move(ActionMoveLeft)
	assert.ErrorIs(t, err, ErrStateCorrupted)
	_, err = e.Tick()
	assert.ErrorIs(t, err, ErrStateCorrupted)
}

func TestConcurrentOperationsAreLinearizable(t *testing.T) {
	cfg := DefaultConfig()
	rec := &recorder{}
	e := New(cfg, WithRandomizer(NewRandomizer(7)), WithObserver(rec))

	moves := []Action{ActionMoveLeft, ActionMoveRight, ActionMoveDown}
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, err := e.Tick()
				assert.NoError(t, err)
				return
			}
			_, err := e.Move(moves[i%len(moves)])
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, rec.events, 100)

	serial := New(cfg, WithRandomizer(NewRandomizer(7)))
	for i, ev := range rec.events {
		out, err := serial.Apply(ev.Action)
		require.NoError(t, err)
		assert.Equal(t, ev.Outcome, out, "event %d (%s)", i, ev.Action)
	}

	got, want := e.Snapshot(), serial.Snapshot()
	assert.True(t, got.SameState(want), "concurrent:\n%s\nserial:\n%s", got.Field, want.Field)
	assert.Equal(t, want.Seq, got.Seq)
}
