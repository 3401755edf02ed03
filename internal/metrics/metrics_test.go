package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		VouchAttemptsTotal,
		AdminActionsTotal,
		LedgerUsers,
		LedgerReputation,
		StoreOpsTotal,
		StoreOpDuration,
		StoreRetriesTotal,
		CommandsTotal,
		CommandDuration,
		ComponentsTotal,
		HTTPRequestsTotal,
	}

	for _, metric := range metrics {
		desc := make(chan *prometheus.Desc, 1)
		metric.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestCounterMetrics(t *testing.T) {
	tests := []struct {
		name    string
		counter *prometheus.CounterVec
		labels  []string
	}{
		{name: "vouch attempts", counter: VouchAttemptsTotal, labels: []string{"accepted"}},
		{name: "admin actions", counter: AdminActionsTotal, labels: []string{"addrep", "success"}},
		{name: "store operations", counter: StoreOpsTotal, labels: []string{"json", "save", "success"}},
		{name: "commands", counter: CommandsTotal, labels: []string{"vouch", "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := tt.counter.WithLabelValues(tt.labels...)
			before := testutil.ToFloat64(counter)

			counter.Inc()

			assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
		})
	}
}
