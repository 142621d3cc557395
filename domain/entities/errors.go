package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the domain. Callers distinguish validation
// failures (retry after correction) from conflicts (re-fetch state) with
// errors.Is.
var (
	// ErrInvalidAmount is returned when a ledger entry carries a zero amount
	ErrInvalidAmount = errors.New("ledger entry amount cannot be zero")

	// ErrMissingGrantor is returned when a grant-kind entry has no grantor
	ErrMissingGrantor = errors.New("grant entry requires a grantor account")

	// ErrNotFound is returned when the referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrNotPending is returned when a request was already processed.
	// This is a conflict, not a validation failure: the caller must re-fetch.
	ErrNotPending = errors.New("request is no longer pending")

	// ErrForbidden is returned when the actor may not perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyDue is returned when canceling a fire time that has already
	// been picked up by the dispatcher or whose scheduled time has passed
	ErrAlreadyDue = errors.New("fire time is already due")
)

// InsufficientCreditError reports a rejected spend with both the global and
// the grantor-scoped shortfall so callers can display whichever constraint
// was binding.
type InsufficientCreditError struct {
	AccountID        int64
	Requested        int64
	GlobalBalance    int64
	GrantorID        *int64
	GrantorAvailable int64
}

func (e *InsufficientCreditError) Error() string {
	if e.GrantorID != nil && e.GrantorAvailable < e.Requested {
		return fmt.Sprintf("insufficient credit: need %d, have %d from grantor %d (global balance %d)",
			e.Requested, e.GrantorAvailable, *e.GrantorID, e.GlobalBalance)
	}
	return fmt.Sprintf("insufficient credit: need %d, global balance %d", e.Requested, e.GlobalBalance)
}

// GlobalShortfall returns how many credits are missing against the global balance
func (e *InsufficientCreditError) GlobalShortfall() int64 {
	if short := e.Requested - e.GlobalBalance; short > 0 {
		return short
	}
	return 0
}

// GrantorShortfall returns how many credits are missing against the grantor
// sub-balance, or zero when no grantor context was given.
func (e *InsufficientCreditError) GrantorShortfall() int64 {
	if e.GrantorID == nil {
		return 0
	}
	if short := e.Requested - e.GrantorAvailable; short > 0 {
		return short
	}
	return 0
}
