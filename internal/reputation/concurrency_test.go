package reputation_test

import (
	"sync"
	"testing"

	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentVouchesAreAppliedAtomically(t *testing.T) {
	t.Parallel()

	const vouchers = 50

	store := &memStore{}
	engine, _ := newTestEngine(t, store, reputation.DefaultSettings())
	ledger := engine.Ledger()
	ctx := t.Context()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		accepted  int
		negatives []int64
		torn      []reputation.Statistics
	)

	for i := range vouchers {
		voucher := reputation.UserID(2000 + i)

		wg.Add(3)

		go func() {
			defer wg.Done()

			result, err := engine.AttemptVouch(ctx,
				reputation.Member{ID: voucher}, reputation.Member{ID: bob}, "traded fairly")
			assert.NoError(t, err)

			if result.Accepted() {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()

		go func() {
			defer wg.Done()

			_, err := ledger.RemoveReputation(ctx, bob, 1)
			assert.NoError(t, err)
		}()

		go func() {
			defer wg.Done()

			for _, standing := range ledger.Leaderboard() {
				if standing.Points < 0 {
					mu.Lock()
					negatives = append(negatives, standing.Points)
					mu.Unlock()
				}
			}

			// Every vouch adds a history record and a cooldown in the same step
			stats := engine.Statistics()
			if stats.TotalVouches != stats.ActiveCooldowns {
				mu.Lock()
				torn = append(torn, stats)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, vouchers, accepted)
	assert.Empty(t, negatives)
	assert.Empty(t, torn)

	stats := engine.Statistics()
	assert.Equal(t, vouchers, stats.TotalVouches)
	assert.Equal(t, vouchers, stats.ActiveCooldowns)
	assert.Len(t, ledger.VouchHistory(bob, vouchers*2), vouchers)
	assert.GreaterOrEqual(t, ledger.GetReputation(bob), int64(0))

	// The last flush holds the final state
	require.NotNil(t, store.saved)
	assert.Equal(t, vouchers*2, store.saveCount())
	assert.Len(t, store.saved.Histories[bob], vouchers)
	assert.Len(t, store.saved.Cooldowns, vouchers)
}
