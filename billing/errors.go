/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (HTTP layer, CLI) classify errors with the helpers at the
  bottom rather than matching strings.

ERROR CATEGORIES:
  1. Validation errors - rejected before any write, field-specific
  2. Persistence errors - storage writes failed, whole commit aborted
  3. Not-found errors   - lookups with no match
  4. Consistency warnings - non-fatal cached/authoritative drift

USAGE:
  if billing.IsValidation(err) {
      // 400: tell the user which field is wrong, form stays populated
  }
  if billing.IsRetryable(err) {
      // 500: safe to resubmit, nothing was written
  }
*/
package billing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the base of every pre-write rejection.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is the base of every storage failure. A commit that
	// fails with this has written nothing: the bill and the balance are
	// both untouched, and the caller may retry.
	ErrPersistence = errors.New("persistence failed")

	// ErrBillNotFound is returned when a bill-number lookup has no match.
	ErrBillNotFound = errors.New("bill not found")

	// ErrDuplicateBill is returned when a bill with the same identifier
	// was already committed. The balance delta is never applied twice.
	ErrDuplicateBill = errors.New("bill already committed")

	// ErrDuplicateBillNumber is returned when a generated bill number
	// collides with an existing bill for the same business. The
	// processor retries generation on this error.
	ErrDuplicateBillNumber = errors.New("duplicate bill number")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError identifies the missing or invalid field so the UI can
// produce an immediate, specific message.
type ValidationError struct {
	Field  string // "customer", "phone", "items", "payment"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistenceError wraps a storage failure with the operation that failed.
// The commit is atomic, so the ledger is unchanged and a retry is safe.
type PersistenceError struct {
	Op  string // "insert bill", "update balance", "commit"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// NotFoundError reports a bill-number lookup with no match.
type NotFoundError struct {
	BillNumber string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bill %s not found", e.BillNumber)
}

func (e *NotFoundError) Unwrap() error { return ErrBillNotFound }

// ConsistencyWarning reports that a cached customer balance differs from
// the ledger's authoritative balance by more than the one-cent tolerance.
// It is non-fatal: the caller resynchronizes from the authoritative value
// instead of aborting the user's action.
type ConsistencyWarning struct {
	Customer      string
	Cached        Money
	Authoritative Money
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("balance mismatch for %s: cached %s, ledger %s",
		w.Customer, w.Cached, w.Authoritative)
}

// Drift returns the absolute difference between the two balances.
func (w *ConsistencyWarning) Drift() Money {
	return w.Cached.Sub(w.Authoritative).Abs()
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid input.
// Nothing was written; the form should stay populated.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound returns true if the error indicates a missing bill.
func IsNotFound(err error) bool { return errors.Is(err, ErrBillNotFound) }

// IsRetryable returns true if resubmitting might succeed. Persistence
// failures abort atomically, so a retry never double-applies.
func IsRetryable(err error) bool { return errors.Is(err, ErrPersistence) }

// IsDuplicate returns true for duplicate bill or bill-number conflicts.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateBill) || errors.Is(err, ErrDuplicateBillNumber)
}
