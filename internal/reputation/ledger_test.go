package reputation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice reputation.UserID = 1001
	bob   reputation.UserID = 1002
	carol reputation.UserID = 1003
	dave  reputation.UserID = 1004
)

func TestRemoveReputationNeverGoesNegative(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	ledger, _ := newTestLedger(t, store)
	ctx := t.Context()

	_, err := ledger.AddReputation(ctx, alice, 5)
	require.NoError(t, err)

	for range 3 {
		points, err := ledger.RemoveReputation(ctx, alice, 4)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, points, int64(0))
	}

	assert.Equal(t, int64(0), ledger.GetReputation(alice))

	// Removing from an absent user creates an explicit zero balance
	points, err := ledger.RemoveReputation(ctx, bob, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), points)

	_, exists := ledger.Balance(bob)
	assert.True(t, exists)
}

func TestAddThenRemoveIsNotAnInverseNearTheFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial int64
		amount  int64
		want    int64
	}{
		{name: "balance above amount restores exactly", initial: 10, amount: 4, want: 10},
		{name: "balance equal to amount restores exactly", initial: 4, amount: 4, want: 4},
		{name: "zero balance restores exactly", initial: 0, amount: 7, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger, _ := newTestLedger(t, &memStore{})
			ctx := t.Context()

			_, err := ledger.SetReputation(ctx, alice, tt.initial)
			require.NoError(t, err)
			_, err = ledger.AddReputation(ctx, alice, tt.amount)
			require.NoError(t, err)
			_, err = ledger.RemoveReputation(ctx, alice, tt.amount)
			require.NoError(t, err)

			assert.Equal(t, tt.want, ledger.GetReputation(alice))
		})
	}

	t.Run("removal below the floor loses the excess", func(t *testing.T) {
		t.Parallel()

		ledger, _ := newTestLedger(t, &memStore{})
		ctx := t.Context()

		_, err := ledger.SetReputation(ctx, alice, 2)
		require.NoError(t, err)
		_, err = ledger.RemoveReputation(ctx, alice, 5)
		require.NoError(t, err)
		_, err = ledger.AddReputation(ctx, alice, 5)
		require.NoError(t, err)

		// 2 - 5 clamps to 0, so adding 5 back yields 5 rather than 2
		assert.Equal(t, int64(5), ledger.GetReputation(alice))
	})
}

func TestInvalidAmountsAreRejected(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	ledger, _ := newTestLedger(t, store)
	ctx := t.Context()

	_, err := ledger.AddReputation(ctx, alice, 0)
	require.ErrorIs(t, err, reputation.ErrInvalidAmount)

	_, err = ledger.AddReputation(ctx, alice, -3)
	require.ErrorIs(t, err, reputation.ErrInvalidAmount)

	_, err = ledger.RemoveReputation(ctx, alice, 0)
	require.ErrorIs(t, err, reputation.ErrInvalidAmount)

	_, err = ledger.SetReputation(ctx, alice, -1)
	require.ErrorIs(t, err, reputation.ErrInvalidAmount)

	// Zero is a valid explicit balance
	_, err = ledger.SetReputation(ctx, alice, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, store.saveCount(), "rejected operations must not persist")
}

func TestRankDistinguishesAbsentFromZero(t *testing.T) {
	t.Parallel()

	ledger, _ := newTestLedger(t, &memStore{})
	ctx := t.Context()

	_, err := ledger.AddReputation(ctx, alice, 9)
	require.NoError(t, err)
	_, err = ledger.SetReputation(ctx, bob, 0)
	require.NoError(t, err)

	_, ranked := ledger.Rank(carol)
	assert.False(t, ranked, "user without activity is unranked")

	rank, ranked := ledger.Rank(bob)
	assert.True(t, ranked, "explicit zero balance is ranked")
	assert.Equal(t, 2, rank)

	rank, ranked = ledger.Rank(alice)
	assert.True(t, ranked)
	assert.Equal(t, 1, rank)
}

func TestClearReputationRemovesUserEntirely(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	engine, _ := newTestEngine(t, store, reputation.DefaultSettings())
	ledger := engine.Ledger()
	ctx := t.Context()

	result, err := engine.AttemptVouch(ctx, reputation.Member{ID: bob}, reputation.Member{ID: alice}, "great trade")
	require.NoError(t, err)
	require.True(t, result.Accepted())

	existed, err := ledger.ClearReputation(ctx, alice)
	require.NoError(t, err)
	assert.True(t, existed)

	for _, standing := range ledger.Leaderboard() {
		assert.NotEqual(t, alice, standing.UserID)
	}

	_, exists := ledger.Balance(alice)
	assert.False(t, exists)
	assert.Equal(t, int64(0), ledger.GetReputation(alice))
	assert.Empty(t, ledger.VouchHistory(alice, 10))

	_, ranked := ledger.Rank(alice)
	assert.False(t, ranked)

	// Clearing an unknown user reports nothing removed but still succeeds
	existed, err = ledger.ClearReputation(ctx, carol)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestLeaderboardOrdering(t *testing.T) {
	t.Parallel()

	ledger, _ := newTestLedger(t, &memStore{})
	ctx := t.Context()

	_, err := ledger.SetReputation(ctx, alice, 10)
	require.NoError(t, err)
	_, err = ledger.SetReputation(ctx, bob, 30)
	require.NoError(t, err)
	_, err = ledger.SetReputation(ctx, carol, 20)
	require.NoError(t, err)

	assert.Equal(t, []reputation.Standing{
		{UserID: bob, Points: 30},
		{UserID: carol, Points: 20},
		{UserID: alice, Points: 10},
	}, ledger.Leaderboard())
}

func TestLeaderboardTiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	ledger, _ := newTestLedger(t, &memStore{})
	ctx := t.Context()

	_, err := ledger.SetReputation(ctx, carol, 5)
	require.NoError(t, err)
	_, err = ledger.SetReputation(ctx, alice, 5)
	require.NoError(t, err)
	_, err = ledger.SetReputation(ctx, bob, 5)
	require.NoError(t, err)

	// Updating a balance keeps its original position among equals
	_, err = ledger.AddReputation(ctx, carol, 1)
	require.NoError(t, err)
	_, err = ledger.RemoveReputation(ctx, carol, 1)
	require.NoError(t, err)

	leaderboard := ledger.Leaderboard()
	require.Len(t, leaderboard, 3)
	assert.Equal(t, carol, leaderboard[0].UserID)
	assert.Equal(t, alice, leaderboard[1].UserID)
	assert.Equal(t, bob, leaderboard[2].UserID)

	// A cleared user re-enters at the end of the order
	_, err = ledger.ClearReputation(ctx, carol)
	require.NoError(t, err)
	_, err = ledger.SetReputation(ctx, carol, 5)
	require.NoError(t, err)

	rank, ok := ledger.Rank(carol)
	require.True(t, ok)
	assert.Equal(t, 3, rank)
}

func TestLeaderboardPage(t *testing.T) {
	t.Parallel()

	ledger, _ := newTestLedger(t, &memStore{})
	ctx := t.Context()

	for i := range 25 {
		_, err := ledger.SetReputation(ctx, reputation.UserID(i+1), int64(100-i))
		require.NoError(t, err)
	}

	page, index, total := ledger.LeaderboardPage(0, 10)
	assert.Len(t, page, 10)
	assert.Equal(t, 0, index)
	assert.Equal(t, 3, total)
	assert.Equal(t, reputation.UserID(1), page[0].UserID)

	page, index, _ = ledger.LeaderboardPage(7, 10)
	assert.Len(t, page, 5)
	assert.Equal(t, 2, index)
	assert.Equal(t, reputation.UserID(21), page[0].UserID)

	empty, _ := newTestLedger(t, &memStore{})
	page, index, total = empty.LeaderboardPage(3, 10)
	assert.Empty(t, page)
	assert.Equal(t, 0, index)
	assert.Equal(t, 1, total)
}

func TestVouchHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	engine, clock := newTestEngine(t, store, reputation.DefaultSettings())
	ctx := t.Context()

	voucherIDs := []reputation.UserID{bob, carol, dave}
	for _, voucher := range voucherIDs {
		result, err := engine.AttemptVouch(ctx, reputation.Member{ID: voucher}, reputation.Member{ID: alice}, "solid trade")
		require.NoError(t, err)
		require.True(t, result.Accepted())
		clock.Advance(time.Minute)
	}

	history := engine.Ledger().VouchHistory(alice, 2)
	require.Len(t, history, 2)
	assert.Equal(t, dave, history[0].Voucher)
	assert.Equal(t, carol, history[1].Voucher)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp))

	assert.Len(t, engine.Ledger().VouchHistory(alice, 10), 3)
	assert.Empty(t, engine.Ledger().VouchHistory(bob, 10))
	assert.Empty(t, engine.Ledger().VouchHistory(alice, 0))
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	t.Parallel()

	store := &memStore{saveErr: errStoreDown}
	ledger, _ := newTestLedger(t, store)

	points, err := ledger.AddReputation(t.Context(), alice, 4)
	require.ErrorIs(t, err, reputation.ErrPersistence)
	require.ErrorIs(t, err, errStoreDown)

	var persistErr *reputation.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "add reputation", persistErr.Op)

	assert.Equal(t, int64(4), points)
	assert.Equal(t, int64(4), ledger.GetReputation(alice))
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	t.Parallel()

	ledger, _ := newTestLedger(t, &memStore{loadErr: errStoreDown})

	assert.Empty(t, ledger.Leaderboard())
	assert.Equal(t, 0, ledger.TotalUsers())
}

func TestLedgerRestoresSnapshot(t *testing.T) {
	t.Parallel()

	initial := reputation.NewSnapshot()
	initial.Balances = []reputation.BalanceEntry{
		{UserID: alice, Points: 6},
		{UserID: bob, Points: -4},
		{UserID: carol, Points: 6},
	}
	initial.Histories[alice] = []reputation.VouchRecord{
		{Voucher: bob, Reason: "first", Timestamp: epoch, RepAmount: 3},
		{Voucher: carol, Reason: "second", Timestamp: epoch.Add(time.Hour), RepAmount: 3},
	}
	initial.Cooldowns[carol] = epoch

	ledger, _ := newTestLedger(t, &memStore{initial: initial})

	assert.Equal(t, []reputation.Standing{
		{UserID: alice, Points: 6},
		{UserID: carol, Points: 6},
		{UserID: bob, Points: 0},
	}, ledger.Leaderboard())
	assert.Equal(t, int64(12), ledger.TotalReputation())

	history := ledger.VouchHistory(alice, 5)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Reason)

	snapshot := ledger.Snapshot()
	assert.Equal(t, epoch, snapshot.Cooldowns[carol])
	assert.Equal(t, reputation.SnapshotVersion, snapshot.Version)
}

func TestOverrideReportsPreviousBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    reputation.Override
		amount  int64
		want    reputation.BalanceChange
		wantErr error
	}{
		{name: "add", kind: reputation.OverrideAdd, amount: 5, want: reputation.BalanceChange{Previous: 10, Current: 15}},
		{name: "remove", kind: reputation.OverrideRemove, amount: 4, want: reputation.BalanceChange{Previous: 10, Current: 6}},
		{name: "remove past zero", kind: reputation.OverrideRemove, amount: 25, want: reputation.BalanceChange{Previous: 10, Current: 0}},
		{name: "set", kind: reputation.OverrideSet, amount: 3, want: reputation.BalanceChange{Previous: 10, Current: 3}},
		{name: "set zero", kind: reputation.OverrideSet, amount: 0, want: reputation.BalanceChange{Previous: 10, Current: 0}},
		{name: "add zero", kind: reputation.OverrideAdd, amount: 0, wantErr: reputation.ErrInvalidAmount},
		{name: "remove negative", kind: reputation.OverrideRemove, amount: -1, wantErr: reputation.ErrInvalidAmount},
		{name: "set negative", kind: reputation.OverrideSet, amount: -1, wantErr: reputation.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger, _ := newTestLedger(t, &memStore{})
			_, err := ledger.SetReputation(t.Context(), alice, 10)
			require.NoError(t, err)

			change, err := ledger.Override(t.Context(), alice, tt.kind, tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, int64(10), ledger.GetReputation(alice))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, change)
			assert.Equal(t, tt.want.Current, ledger.GetReputation(alice))
		})
	}
}

func TestConcurrentOverridesSeeEachOther(t *testing.T) {
	t.Parallel()

	const workers = 20

	ledger, _ := newTestLedger(t, &memStore{})

	changes := make(chan reputation.BalanceChange, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			change, err := ledger.Override(t.Context(), alice, reputation.OverrideAdd, 1)
			assert.NoError(t, err)
			changes <- change
		}()
	}
	wg.Wait()
	close(changes)

	seen := make(map[int64]bool, workers)
	for change := range changes {
		assert.Equal(t, change.Previous+1, change.Current)
		assert.False(t, seen[change.Previous], "previous balance %d reported twice", change.Previous)
		seen[change.Previous] = true
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, int64(workers), ledger.GetReputation(alice))
}
