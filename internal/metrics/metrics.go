// Package metrics exports engine activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/blockfall/internal/engine"
)

const namespace = "blockfall"

// Collector counts transitions reported by engines. One Collector can be
// shared by every engine of a process; it implements engine.Observer.
type Collector struct {
	registry *prometheus.Registry

	ticks       prometheus.Counter
	moves       *prometheus.CounterVec
	locked      *prometheus.CounterVec
	rowsCleared prometheus.Counter
	boardFull   prometheus.Counter
	active      prometheus.Gauge
	sessions    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gravity_ticks_total",
			Help:      "Gravity ticks that moved or locked a block.",
		}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Player move attempts by outcome.",
		}, []string{"action", "outcome"}),
		locked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_locked_total",
			Help:      "Blocks merged into the field by kind.",
		}, []string{"kind"}),
		rowsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_cleared_total",
			Help:      "Full rows removed from the field.",
		}),
		boardFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_full_total",
			Help:      "Games that ended because a new block could not spawn.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently running.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Finished sessions by end reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Wall time of finished sessions.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}),
	}

	c.registry.MustRegister(
		c.ticks, c.moves, c.locked, c.rowsCleared,
		c.boardFull, c.active, c.sessions, c.duration,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe implements engine.Observer.
func (c *Collector) Observe(ev engine.Event) {
	if ev.Action == engine.ActionTick {
		switch ev.Outcome {
		case engine.OutcomeMoved:
			c.ticks.Inc()
		case engine.OutcomeLocked, engine.OutcomeBoardFull:
			c.ticks.Inc()
			c.locked.WithLabelValues(ev.Kind.String()).Inc()
			c.rowsCleared.Add(float64(ev.Rows))
			if ev.Outcome == engine.OutcomeBoardFull {
				c.boardFull.Inc()
			}
		}
		return
	}
	if ev.Action == engine.ActionQuit {
		return
	}
	c.moves.WithLabelValues(ev.Action.String(), ev.Outcome.String()).Inc()
}

// SessionStarted marks a session as running.
func (c *Collector) SessionStarted() {
	c.active.Inc()
}

// SessionEnded records a finished session.
func (c *Collector) SessionEnded(res engine.Result) {
	c.active.Dec()
	c.sessions.WithLabelValues(string(res.Reason)).Inc()
	c.duration.Observe(res.Duration.Seconds())
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics on a side address.
type Server struct {
	srv    *http.Server
	logger *log.Logger
}

// Serve starts an HTTP server for c on addr in a background goroutine.
func Serve(c *Collector, addr string, logger *log.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}

	go func() {
		logger.Info("metrics listening", "address", addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	return s
}

// Shutdown stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

var _ engine.Observer = (*Collector)(nil)
