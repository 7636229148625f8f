// Package metrics registers the Prometheus instruments exported at
// /metrics.  Collectors are registered once at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReserveAttempts counts reserve calls by outcome: ok, unavailable,
	// limit_exceeded.
	ReserveAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_reserve_attempts_total",
		Help: "Total seat reserve attempts by outcome",
	}, []string{"outcome"})

	// SweepReclaimed counts seats released back to available by the
	// expiry sweeper.
	SweepReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seat_sweep_reclaimed_total",
		Help: "Total expired holds reclaimed by the sweeper",
	})

	// LastSweepSize is the number of seats reclaimed by the most recent
	// non-empty sweep.
	LastSweepSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seat_sweep_last_reclaimed",
		Help: "Seats reclaimed by the most recent non-empty sweep",
	})
)
