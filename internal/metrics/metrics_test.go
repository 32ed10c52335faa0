package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePlan(3, nil)
	m.ObservePlan(0, nil)
	m.ObservePlan(0, errors.New("imbalance"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlansComputed.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansComputed.WithLabelValues("imbalance")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PlanTransfers))
}

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordsAppended.WithLabelValues("expense").Add(2)
	m.ValidationFailures.Inc()
	m.LedgersLoaded.Set(1)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "tripsplit_ledger_records_appended_total")
	assert.Contains(t, names, "tripsplit_ledger_validation_failures_total")
	assert.Contains(t, names, "tripsplit_ledgers_loaded")
	assert.Contains(t, names, "tripsplit_settlement_plan_transfers")
}
