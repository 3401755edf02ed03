// Package storagetest provides shared checks for reputation.Store implementations.
package storagetest

import (
	"testing"
	"time"

	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 250_000_000, time.UTC)

// Sample returns a snapshot that uses every field, with balances out of id order.
func Sample() *reputation.Snapshot {
	snapshot := reputation.NewSnapshot()
	snapshot.Balances = []reputation.BalanceEntry{
		{UserID: 300, Points: 12},
		{UserID: 100, Points: 0},
		{UserID: 200, Points: 12},
	}
	snapshot.Histories[300] = []reputation.VouchRecord{
		{Voucher: 100, Reason: "great trade", Timestamp: base, RepAmount: 3},
		{Voucher: 200, Reason: "fast \"delivery\" 👍", Timestamp: base.Add(time.Minute), RepAmount: 3},
	}
	snapshot.Histories[200] = []reputation.VouchRecord{
		{Voucher: 300, Reason: "honest", Timestamp: base.Add(2 * time.Minute), RepAmount: 5},
	}
	snapshot.Cooldowns[100] = base
	snapshot.Cooldowns[300] = base.Add(2 * time.Minute)

	return snapshot
}

// RequireEqual fails the test unless both snapshots describe the same state.
func RequireEqual(t testing.TB, want, got *reputation.Snapshot) {
	t.Helper()

	require.NotNil(t, got)
	assert.Equal(t, reputation.SnapshotVersion, got.Version)
	assert.Equal(t, want.Balances, got.Balances)

	require.Len(t, got.Histories, len(want.Histories))
	for userID, records := range want.Histories {
		gotRecords := got.Histories[userID]
		require.Len(t, gotRecords, len(records), "history of %d", userID)
		for i, record := range records {
			assert.Equal(t, record.Voucher, gotRecords[i].Voucher)
			assert.Equal(t, record.Reason, gotRecords[i].Reason)
			assert.Equal(t, record.RepAmount, gotRecords[i].RepAmount)
			assert.True(t, record.Timestamp.Equal(gotRecords[i].Timestamp),
				"timestamp %s != %s", record.Timestamp, gotRecords[i].Timestamp)
		}
	}

	require.Len(t, got.Cooldowns, len(want.Cooldowns))
	for userID, at := range want.Cooldowns {
		assert.True(t, at.Equal(got.Cooldowns[userID]), "cooldown of %d", userID)
	}
}

// RoundTrip checks that a store loads what it saved and that a save replaces
// everything stored before it.
func RoundTrip(t *testing.T, store reputation.Store) {
	t.Helper()
	ctx := t.Context()

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	RequireEqual(t, reputation.NewSnapshot(), empty)

	sample := Sample()
	require.NoError(t, store.Save(ctx, sample))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	RequireEqual(t, sample, loaded)

	smaller := reputation.NewSnapshot()
	smaller.Balances = []reputation.BalanceEntry{{UserID: 200, Points: 4}}
	smaller.Histories[200] = sample.Histories[200]
	require.NoError(t, store.Save(ctx, smaller))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	RequireEqual(t, smaller, loaded)
}
