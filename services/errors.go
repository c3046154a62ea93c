package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the economy services. Handlers match these with
// errors.Is and map them to HTTP statuses; everything else is treated as a
// store failure.
var (
	// ErrInsufficientEnergy: consume asked for more energy than available
	// after regeneration. Recoverable; never retried automatically.
	ErrInsufficientEnergy = errors.New("insufficient energy")

	// ErrInsufficientBalance: essence debit exceeds the current balance.
	// The balance is left unchanged.
	ErrInsufficientBalance = errors.New("insufficient essence balance")

	// ErrAlreadyHasEntitlement: duplicate entry ticket purchase. Callers
	// treat this as a successful no-op (idempotent retry).
	ErrAlreadyHasEntitlement = errors.New("entry ticket already held")

	// ErrPreconditionFailed: operation gated on a missing entitlement,
	// e.g. reserve energy purchase without a ticket.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrNotFound: the requested row genuinely does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount: zero or negative amount on a credit/debit/consume.
	// Surfaced rather than silently ignored so caller bugs show up.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrStoreUnavailable wraps transient persistence failures. Safe to
	// retry: every mutating operation here is idempotent or atomic.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeErr wraps a raw persistence error so callers can distinguish "store
// broke" from "genuinely absent" without inspecting driver errors.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
