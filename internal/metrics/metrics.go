package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Moves counts moves made by agents.
	// Labels: kind (safe, random)
	Moves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minesweeper",
		Subsystem: "agent",
		Name:      "moves_total",
		Help:      "Total moves made by agents",
	}, []string{"kind"})

	// Games counts finished games.
	// Labels: outcome (won, lost, stalled)
	Games = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minesweeper",
		Subsystem: "agent",
		Name:      "games_total",
		Help:      "Total games finished by agents",
	}, []string{"outcome"})

	// ClosureIterations observes the iterations each closure needed.
	ClosureIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "minesweeper",
		Subsystem: "knowledge",
		Name:      "closure_iterations",
		Help:      "Fixed-point iterations per closure",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 32, 64},
	})

	// Sentences observes the number of sentences held after a closure.
	Sentences = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "minesweeper",
		Subsystem: "knowledge",
		Name:      "sentences",
		Help:      "Sentences held after closure",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	// Contradictions counts closures rejected as inconsistent.
	Contradictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "minesweeper",
		Subsystem: "knowledge",
		Name:      "contradictions_total",
		Help:      "Total observations rejected as inconsistent",
	})

	// Sessions tracks live game sessions held by the server.
	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "minesweeper",
		Subsystem: "server",
		Name:      "sessions",
		Help:      "Live game sessions",
	})
)
