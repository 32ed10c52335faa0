// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tripsplit"

// Metrics holds the collectors updated by the services.
type Metrics struct {
	// RecordsAppended counts log records by kind (expense, payment, reversal).
	RecordsAppended *prometheus.CounterVec

	// ValidationFailures counts rejected expense, payment and reversal requests.
	ValidationFailures prometheus.Counter

	// PlansComputed counts settlement plans, by outcome (ok, imbalance).
	PlansComputed *prometheus.CounterVec

	// PlanTransfers observes the number of transfers per plan.
	PlanTransfers prometheus.Histogram

	// LedgersLoaded is the number of trip ledgers replayed into memory.
	LedgersLoaded prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_records_appended_total",
			Help:      "Records appended to trip ledgers, by kind.",
		}, []string{"kind"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_validation_failures_total",
			Help:      "Ledger writes rejected by validation.",
		}),
		PlansComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_plans_total",
			Help:      "Settlement plans computed, by outcome.",
		}, []string{"outcome"}),
		PlanTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_plan_transfers",
			Help:      "Number of transfers in each settlement plan.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		LedgersLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledgers_loaded",
			Help:      "Trip ledgers currently held in memory.",
		}),
	}

	reg.MustRegister(
		m.RecordsAppended,
		m.ValidationFailures,
		m.PlansComputed,
		m.PlanTransfers,
		m.LedgersLoaded,
	)
	return m
}

// ObservePlan records the outcome of one settlement plan.
func (m *Metrics) ObservePlan(transfers int, err error) {
	if err != nil {
		m.PlansComputed.WithLabelValues("imbalance").Inc()
		return
	}
	m.PlansComputed.WithLabelValues("ok").Inc()
	m.PlanTransfers.Observe(float64(transfers))
}
