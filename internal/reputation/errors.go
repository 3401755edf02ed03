package reputation

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidReason indicates the vouch reason is missing or too short.
	ErrInvalidReason = errors.New("vouch reason must be at least 3 characters")
	// ErrSelfVouch indicates a user tried to vouch for themselves.
	ErrSelfVouch = errors.New("cannot vouch for yourself")
	// ErrBotTarget indicates the vouch target is an automated account.
	ErrBotTarget = errors.New("cannot vouch for bots")
	// ErrCooldownActive indicates the voucher is still inside the cooldown window.
	ErrCooldownActive = errors.New("vouch cooldown active")
	// ErrInvalidAmount indicates an administrative amount outside the allowed range.
	ErrInvalidAmount = errors.New("invalid reputation amount")
	// ErrPersistence indicates the store could not be read or written.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotPrivileged indicates the actor may not use administrative overrides.
	ErrNotPrivileged = errors.New("actor is not privileged")
)

// CooldownError reports how long a voucher must still wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: %s remaining", ErrCooldownActive, e.Remaining)
}

// Is lets errors.Is match ErrCooldownActive.
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// PersistenceError wraps a store failure with the ledger operation that caused it.
// The in-memory mutation of that operation has already been applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
