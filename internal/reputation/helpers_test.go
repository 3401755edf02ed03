package reputation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store down")

// memStore keeps the last saved snapshot in memory.
type memStore struct {
	mu      sync.Mutex
	saved   *reputation.Snapshot
	saves   int
	loadErr error
	saveErr error
	initial *reputation.Snapshot
}

func (s *memStore) Load(_ context.Context) (*reputation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.initial != nil {
		return s.initial, nil
	}

	return reputation.NewSnapshot(), nil
}

func (s *memStore) Save(_ context.Context, snapshot *reputation.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = snapshot

	return nil
}

func (s *memStore) Close() error {
	return nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saves
}

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T, store *memStore) (*reputation.Ledger, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(epoch)
	ledger := reputation.NewLedger(t.Context(), store, clock, zap.NewNop())

	return ledger, clock
}

func newTestEngine(t *testing.T, store *memStore, settings reputation.Settings) (*reputation.Engine, *clockwork.FakeClock) {
	t.Helper()

	ledger, clock := newTestLedger(t, store)

	return reputation.NewEngine(ledger, settings, zap.NewNop()), clock
}
