// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AgentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarthire_agent_calls_total",
			Help: "Total number of structured generation calls by agent and outcome",
		},
		[]string{"agent", "outcome"},
	)

	AgentCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smarthire_agent_call_duration_seconds",
			Help:    "Duration of structured generation calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"agent"},
	)

	AgentCallsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smarthire_agent_calls_active",
			Help: "Number of structured generation calls in flight",
		},
	)

	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarthire_store_mutations_total",
			Help: "Total number of entity store mutations by operation",
		},
		[]string{"op"},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smarthire_persist_failures_total",
			Help: "Total number of snapshot writes that failed",
		},
	)

	ToastsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smarthire_toasts_active",
			Help: "Number of toasts currently displayed",
		},
	)
)
