package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementSeekerSubmissions("accepted")
	m.IncrementSeekerSubmissions("cooldown")
	m.IncrementSeekerSubmissions("cooldown")
	m.AddLowStockRows(3)
	m.ObserveDashboard(time.Now())

	assert.InDelta(t, 2, testutil.ToFloat64(m.SeekerSubmissions.WithLabelValues("cooldown")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.LowStockRows), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementDonations("create")
		m.ObserveHTTP("/healthz", "GET", "200", time.Millisecond)
	})
}
