package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/dashboard", "200").Inc()
	m.ObserveBackendCall("files", "list", "success", 0.02)
	m.LoginsTotal.WithLabelValues("local", "success").Inc()

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["abdata_http_requests_total"])
	assert.True(t, names["abdata_backend_calls_total"])
	assert.True(t, names["abdata_logins_total"])
}

func TestObserveBackendCall_Counts(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.ObserveBackendCall("reports", "download", "http", 0.5)
	m.ObserveBackendCall("reports", "download", "http", 0.1)

	count := testutil.ToFloat64(m.BackendCallsTotal.WithLabelValues("reports", "download", "http"))
	assert.Equal(t, float64(2), count)
}

func TestObserveBackendCall_NilReceiver(t *testing.T) {
	var m *Metrics
	// Metrics are optional in tests; a nil receiver must be a no-op
	m.ObserveBackendCall("files", "list", "success", 0)
}
