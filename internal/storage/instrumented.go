package storage

import (
	"context"
	"time"

	"github.com/robalyx/vouchbot/internal/metrics"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// instrumentedStore records operation counts and latencies.
type instrumentedStore struct {
	next    reputation.Store
	backend string
}

// WithMetrics wraps a store with Prometheus instrumentation.
func WithMetrics(next reputation.Store, backend string) reputation.Store {
	return &instrumentedStore{next: next, backend: backend}
}

func (s *instrumentedStore) Load(ctx context.Context) (*reputation.Snapshot, error) {
	start := time.Now()
	snapshot, err := s.next.Load(ctx)
	s.observe("load", start, err)

	if err == nil && snapshot != nil {
		s.gauge(snapshot)
	}

	return snapshot, err
}

func (s *instrumentedStore) Save(ctx context.Context, snapshot *reputation.Snapshot) error {
	start := time.Now()
	err := s.next.Save(ctx, snapshot)
	s.observe("save", start, err)

	if err == nil {
		s.gauge(snapshot)
	}

	return err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	metrics.StoreOpsTotal.WithLabelValues(s.backend, op, status).Inc()
	metrics.StoreOpDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

// gauge publishes the ledger size of the last snapshot that reached the store.
func (s *instrumentedStore) gauge(snapshot *reputation.Snapshot) {
	var total int64
	for _, entry := range snapshot.Balances {
		total += entry.Points
	}

	metrics.LedgerUsers.Set(float64(len(snapshot.Balances)))
	metrics.LedgerReputation.Set(float64(total))
}
