package reputation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultVouchRepAmount is the reputation granted by a successful vouch.
	DefaultVouchRepAmount = 3
	// DefaultVouchCooldown is the wait between two successful vouches of one voucher.
	DefaultVouchCooldown = 600 * time.Second
	// MinReasonLength is the minimum number of characters in a trimmed vouch reason.
	MinReasonLength = 3
)

// Settings configures the vouch policy.
type Settings struct {
	VouchRepAmount    int64
	VouchCooldown     time.Duration
	PrivilegedActorID UserID
}

// DefaultSettings returns the default vouch policy without a privileged actor.
func DefaultSettings() Settings {
	return Settings{
		VouchRepAmount: DefaultVouchRepAmount,
		VouchCooldown:  DefaultVouchCooldown,
	}
}

// VouchStatus is the outcome of a vouch attempt.
type VouchStatus int

const (
	VouchAccepted VouchStatus = iota
	VouchInvalidReason
	VouchSelf
	VouchBotTarget
	VouchCooldown
)

// String returns the metric label of the status.
func (s VouchStatus) String() string {
	switch s {
	case VouchAccepted:
		return "accepted"
	case VouchInvalidReason:
		return "invalid_reason"
	case VouchSelf:
		return "self_vouch"
	case VouchBotTarget:
		return "bot_target"
	case VouchCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// VouchResult describes a vouch attempt. Record and Balance are only set
// when Status is VouchAccepted; Remaining only when it is VouchCooldown.
type VouchResult struct {
	Status    VouchStatus
	Remaining time.Duration
	Record    VouchRecord
	Balance   int64
}

// Accepted reports whether the vouch was applied.
func (r VouchResult) Accepted() bool {
	return r.Status == VouchAccepted
}

// Err maps a rejected result onto its sentinel error. It returns nil when accepted.
func (r VouchResult) Err() error {
	switch r.Status {
	case VouchAccepted:
		return nil
	case VouchInvalidReason:
		return ErrInvalidReason
	case VouchSelf:
		return ErrSelfVouch
	case VouchBotTarget:
		return ErrBotTarget
	case VouchCooldown:
		return &CooldownError{Remaining: r.Remaining}
	default:
		return nil
	}
}

// Engine validates and records vouches on top of a ledger.
type Engine struct {
	ledger   *Ledger
	settings Settings
	logger   *zap.Logger
}

// NewEngine creates an engine. Non-positive settings fall back to the defaults.
func NewEngine(ledger *Ledger, settings Settings, logger *zap.Logger) *Engine {
	if settings.VouchRepAmount <= 0 {
		settings.VouchRepAmount = DefaultVouchRepAmount
	}
	if settings.VouchCooldown <= 0 {
		settings.VouchCooldown = DefaultVouchCooldown
	}

	return &Engine{
		ledger:   ledger,
		settings: settings,
		logger:   logger.Named("vouch"),
	}
}

// Settings returns the active vouch policy.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Ledger returns the ledger the engine writes to.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// AttemptVouch validates a vouch and applies it when every check passes.
//
// Checks run in order and the first failure is returned as the result status:
// reason length, self vouch, bot target, voucher cooldown. The returned error
// is only set when an accepted vouch could not be persisted.
func (e *Engine) AttemptVouch(ctx context.Context, voucher, target Member, reason string) (VouchResult, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < MinReasonLength {
		return VouchResult{Status: VouchInvalidReason}, nil
	}

	if target.ID == voucher.ID {
		return VouchResult{Status: VouchSelf}, nil
	}

	if target.Bot {
		return VouchResult{Status: VouchBotTarget}, nil
	}

	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	now := e.ledger.now()
	if remaining, active := e.cooldownRemaining(voucher.ID, now); active {
		return VouchResult{Status: VouchCooldown, Remaining: remaining}, nil
	}

	record := VouchRecord{
		Voucher:   voucher.ID,
		Reason:    reason,
		Timestamp: now,
		RepAmount: e.settings.VouchRepAmount,
	}

	// History, balance and cooldown change together and are flushed once
	e.ledger.histories[target.ID] = append(e.ledger.histories[target.ID], record)
	balance := e.ledger.add(target.ID, record.RepAmount)
	e.ledger.cooldowns[voucher.ID] = now

	e.logger.Info("Vouch recorded",
		zap.Uint64("voucher", uint64(voucher.ID)),
		zap.Uint64("target", uint64(target.ID)),
		zap.Int64("amount", record.RepAmount),
		zap.Int64("balance", balance))

	result := VouchResult{Status: VouchAccepted, Record: record, Balance: balance}

	return result, e.ledger.persist(ctx, "vouch")
}

// CooldownRemaining returns how long the user must still wait before vouching.
// The boolean is false when the user is not on cooldown.
func (e *Engine) CooldownRemaining(user UserID) (time.Duration, bool) {
	e.ledger.mu.RLock()
	defer e.ledger.mu.RUnlock()

	return e.cooldownRemaining(user, e.ledger.now())
}

// ResetCooldown deletes the user's cooldown entry and reports whether one existed.
// Stale entries count as existing.
func (e *Engine) ResetCooldown(ctx context.Context, user UserID) (bool, error) {
	e.ledger.mu.Lock()
	defer e.ledger.mu.Unlock()

	if _, ok := e.ledger.cooldowns[user]; !ok {
		return false, nil
	}
	delete(e.ledger.cooldowns, user)

	e.logger.Info("Vouch cooldown reset", zap.Uint64("userID", uint64(user)))

	return true, e.ledger.persist(ctx, "reset cooldown")
}

// Authorize returns ErrNotPrivileged unless actor is the privileged actor.
func (e *Engine) Authorize(actor UserID) error {
	if e.settings.PrivilegedActorID == 0 || actor != e.settings.PrivilegedActorID {
		return ErrNotPrivileged
	}

	return nil
}

// Statistics summarizes the ledger, counting cooldowns still inside the window.
func (e *Engine) Statistics() Statistics {
	e.ledger.mu.RLock()
	defer e.ledger.mu.RUnlock()

	now := e.ledger.now()
	stats := Statistics{TotalUsers: len(e.ledger.order)}

	for _, points := range e.ledger.balances {
		stats.TotalReputation += points
	}

	for _, records := range e.ledger.histories {
		stats.TotalVouches += len(records)
	}

	for userID := range e.ledger.cooldowns {
		if _, active := e.cooldownRemaining(userID, now); active {
			stats.ActiveCooldowns++
		}
	}

	if leaderboard := e.ledger.leaderboard(); len(leaderboard) > 0 {
		top := leaderboard[0]
		stats.Top = &top
	}

	return stats
}

// cooldownRemaining computes the cooldown state at now. Callers must hold the lock.
// Expired entries are left in place until the next successful vouch overwrites them.
func (e *Engine) cooldownRemaining(user UserID, now time.Time) (time.Duration, bool) {
	lastVouch, ok := e.ledger.cooldowns[user]
	if !ok {
		return 0, false
	}

	elapsed := now.Sub(lastVouch)
	if elapsed >= e.settings.VouchCooldown {
		return 0, false
	}

	return e.settings.VouchCooldown - elapsed, true
}
