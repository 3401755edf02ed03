package reputation

import (
	"context"
	"time"
)

// SnapshotVersion is the current persisted format version.
const SnapshotVersion = 1

// UserID identifies a member. Values are Discord snowflakes.
type UserID uint64

// Member is the identity information the core needs about a Discord account.
// Display names are resolved by the caller.
type Member struct {
	ID  UserID
	Bot bool
}

// VouchRecord is a single endorsement received by a user.
// Records are immutable once created.
type VouchRecord struct {
	Voucher   UserID    `json:"voucher"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	RepAmount int64     `json:"rep_amount"`
}

// BalanceEntry is a user's balance as stored, in ledger insertion order.
type BalanceEntry struct {
	UserID UserID `json:"user_id"`
	Points int64  `json:"points"`
}

// Standing is a user's position on the leaderboard.
type Standing struct {
	UserID UserID
	Points int64
}

// Statistics summarizes the whole ledger.
type Statistics struct {
	TotalUsers      int
	TotalReputation int64
	TotalVouches    int
	ActiveCooldowns int
	Top             *Standing
}

// Snapshot is the unit exchanged with a Store.
// Balances keep ledger insertion order and histories are oldest first.
type Snapshot struct {
	Version   int                      `json:"version"`
	Balances  []BalanceEntry           `json:"balances"`
	Histories map[UserID][]VouchRecord `json:"histories"`
	Cooldowns map[UserID]time.Time     `json:"cooldowns"`
}

// NewSnapshot returns an empty snapshot of the current version.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:   SnapshotVersion,
		Balances:  []BalanceEntry{},
		Histories: make(map[UserID][]VouchRecord),
		Cooldowns: make(map[UserID]time.Time),
	}
}

// Store persists ledger snapshots.
//
// Load must return an empty snapshot and a nil error when nothing has been
// stored yet. Save replaces the stored state with the given snapshot.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Close() error
}
