package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/blocks"
	"github.com/vovakirdan/blockfall/internal/engine"
)

func TestCollectorCountsEngineEvents(t *testing.T) {
	c := New()
	e := engine.New(engine.DefaultConfig(),
		engine.WithRandomizer(engine.RandomizerFunc(func() blocks.Kind { return blocks.KindO })),
		engine.WithObserver(c),
	)

	for range 19 {
		_, err := e.Tick()
		require.NoError(t, err)
	}
	_, err := e.Move(engine.ActionMoveLeft)
	require.NoError(t, err)
	for range 10 {
		_, err = e.Move(engine.ActionMoveLeft)
		require.NoError(t, err)
	}

	assert.Equal(t, 19.0, testutil.ToFloat64(c.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.locked.WithLabelValues("O")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.rowsCleared))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.moves.WithLabelValues("left", "moved")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.moves.WithLabelValues("left", "rejected")))
}

func TestCollectorSessions(t *testing.T) {
	c := New()
	c.SessionStarted()
	c.SessionStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.active))

	c.SessionEnded(engine.Result{Reason: engine.EndQuit, Duration: 3 * time.Second})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.active))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessions.WithLabelValues("quit")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Observe(engine.Event{Action: engine.ActionTick, Outcome: engine.OutcomeLocked, Kind: blocks.KindT, Rows: 2})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `blockfall_blocks_locked_total{kind="T"} 1`), body)
	assert.True(t, strings.Contains(body, "blockfall_rows_cleared_total 2"), body)
}
