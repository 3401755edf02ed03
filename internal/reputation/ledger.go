package reputation

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Ledger owns point balances, vouch histories and vouch cooldowns.
//
// A single lock guards the three maps as one unit. Every mutation is applied
// in memory and flushed to the store before the lock is released, so a reader
// never observes a state that was not handed to the store.
type Ledger struct {
	mu        sync.RWMutex
	balances  map[UserID]int64
	order     []UserID // balance insertion order, used as the leaderboard tie-break
	histories map[UserID][]VouchRecord
	cooldowns map[UserID]time.Time

	store  Store
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewLedger loads the stored state and returns a ready ledger.
// A store that cannot be read is logged and replaced by an empty state.
func NewLedger(ctx context.Context, store Store, clock clockwork.Clock, logger *zap.Logger) *Ledger {
	l := &Ledger{
		balances:  make(map[UserID]int64),
		histories: make(map[UserID][]VouchRecord),
		cooldowns: make(map[UserID]time.Time),
		store:     store,
		clock:     clock,
		logger:    logger.Named("ledger"),
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		l.logger.Error("Failed to load reputation data, starting with an empty ledger", zap.Error(err))
		return l
	}

	l.restore(snapshot)
	l.logger.Info("Reputation data loaded",
		zap.Int("users", len(l.order)),
		zap.Int("histories", len(l.histories)),
		zap.Int("cooldowns", len(l.cooldowns)))

	return l
}

// restore replaces the in-memory state with the snapshot contents.
func (l *Ledger) restore(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}

	for _, entry := range snapshot.Balances {
		points := entry.Points
		if points < 0 {
			l.logger.Warn("Clamping negative stored balance",
				zap.Uint64("userID", uint64(entry.UserID)),
				zap.Int64("points", points))
			points = 0
		}

		if _, exists := l.balances[entry.UserID]; !exists {
			l.order = append(l.order, entry.UserID)
		}
		l.balances[entry.UserID] = points
	}

	for userID, records := range snapshot.Histories {
		if len(records) == 0 {
			continue
		}
		l.histories[userID] = slices.Clone(records)
	}

	for userID, lastVouch := range snapshot.Cooldowns {
		l.cooldowns[userID] = lastVouch.UTC()
	}
}

// GetReputation returns the user's balance, or 0 when the user has none.
func (l *Ledger) GetReputation(user UserID) int64 {
	points, _ := l.Balance(user)
	return points
}

// Balance returns the user's balance and whether a balance entry exists.
// An absent entry and an explicit zero are different states.
func (l *Ledger) Balance(user UserID) (int64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balance(user)
}

// Override selects how an administrative change applies its amount.
type Override int

const (
	OverrideAdd Override = iota
	OverrideRemove
	OverrideSet
)

// BalanceChange is a balance before and after an override.
type BalanceChange struct {
	Previous int64
	Current  int64
}

// AddReputation increases the user's balance by a positive amount.
func (l *Ledger) AddReputation(ctx context.Context, user UserID, amount int64) (int64, error) {
	change, err := l.Override(ctx, user, OverrideAdd, amount)
	return change.Current, err
}

// RemoveReputation decreases the user's balance by a positive amount.
// The balance never drops below zero and the excess is discarded.
func (l *Ledger) RemoveReputation(ctx context.Context, user UserID, amount int64) (int64, error) {
	change, err := l.Override(ctx, user, OverrideRemove, amount)
	return change.Current, err
}

// SetReputation overwrites the user's balance. Negative amounts are rejected.
func (l *Ledger) SetReputation(ctx context.Context, user UserID, amount int64) (int64, error) {
	change, err := l.Override(ctx, user, OverrideSet, amount)
	return change.Current, err
}

// Override applies an administrative change and returns the balance read
// under the same lock before and after it. Add and remove need a positive
// amount, set a non-negative one.
func (l *Ledger) Override(ctx context.Context, user UserID, kind Override, amount int64) (BalanceChange, error) {
	if amount < 0 || (amount == 0 && kind != OverrideSet) {
		return BalanceChange{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	previous, _ := l.balance(user)
	change := BalanceChange{Previous: previous}

	var op string
	switch kind {
	case OverrideAdd:
		op = "add reputation"
		change.Current = previous + amount
	case OverrideRemove:
		op = "remove reputation"
		change.Current = max(previous-amount, 0)
	case OverrideSet:
		op = "set reputation"
		change.Current = amount
	default:
		return BalanceChange{}, fmt.Errorf("unknown override %d", kind)
	}
	l.setBalance(user, change.Current)

	return change, l.persist(ctx, op)
}

// ClearReputation removes the user's balance and vouch history entirely.
// It reports whether the user had either of them.
func (l *Ledger) ClearReputation(ctx context.Context, user UserID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, hadBalance := l.balances[user]
	_, hadHistory := l.histories[user]

	if hadBalance {
		delete(l.balances, user)
		l.order = slices.DeleteFunc(l.order, func(id UserID) bool { return id == user })
	}
	delete(l.histories, user)

	return hadBalance || hadHistory, l.persist(ctx, "clear reputation")
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.snapshot()
}

// balance is the lazy-default accessor. Callers must hold the lock.
func (l *Ledger) balance(user UserID) (int64, bool) {
	points, ok := l.balances[user]
	if !ok {
		return 0, false
	}

	return points, true
}

// add increases a balance, creating it when absent. Callers must hold the write lock.
func (l *Ledger) add(user UserID, amount int64) int64 {
	current, _ := l.balance(user)
	points := current + amount
	l.setBalance(user, points)

	return points
}

// setBalance writes a balance and records first-insertion order.
// Callers must hold the write lock.
func (l *Ledger) setBalance(user UserID, points int64) {
	if _, exists := l.balances[user]; !exists {
		l.order = append(l.order, user)
	}
	l.balances[user] = points
}

// snapshot copies the state. Callers must hold the lock.
func (l *Ledger) snapshot() *Snapshot {
	snapshot := NewSnapshot()

	snapshot.Balances = make([]BalanceEntry, 0, len(l.order))
	for _, userID := range l.order {
		snapshot.Balances = append(snapshot.Balances, BalanceEntry{UserID: userID, Points: l.balances[userID]})
	}

	for userID, records := range l.histories {
		snapshot.Histories[userID] = slices.Clone(records)
	}

	for userID, lastVouch := range l.cooldowns {
		snapshot.Cooldowns[userID] = lastVouch
	}

	return snapshot
}

// persist flushes the state to the store. Callers must hold the write lock.
// A failure is logged and returned; the in-memory mutation stays applied.
func (l *Ledger) persist(ctx context.Context, op string) error {
	if err := l.store.Save(ctx, l.snapshot()); err != nil {
		l.logger.Warn("Failed to persist reputation data",
			zap.String("operation", op),
			zap.Error(err))

		return &PersistenceError{Op: op, Err: err}
	}

	l.logger.Debug("Reputation data saved", zap.String("operation", op))

	return nil
}

// now returns the current clock reading in UTC at microsecond precision,
// the finest precision every store keeps.
func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC().Truncate(time.Microsecond)
}
