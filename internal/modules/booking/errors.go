package booking

import "errors"

var (
	// ErrNotFound: the vehicle or booking does not exist.
	ErrNotFound = errors.New("booking or vehicle not found")

	// ErrInvalidInput: malformed interval (start >= end, or start in the past).
	ErrInvalidInput = errors.New("invalid booking time range")

	// ErrConflict: no inventory unit left, or the interval overlaps an
	// active booking.
	ErrConflict = errors.New("vehicle not available for the requested window")

	// ErrInvalidState: the transition is not legal from the current status.
	ErrInvalidState = errors.New("invalid booking status transition")

	// ErrForbidden: the actor lacks the required ownership relation.
	ErrForbidden = errors.New("actor not allowed to perform this operation")

	// ErrLockTimeout: the vehicle's reservation lock could not be acquired
	// within the wait bound.
	ErrLockTimeout = errors.New("reservation lock wait timed out")

	// ErrLedgerFault: the inventory counters disagree with the booking set.
	// Internal fault, never caused by client input.
	ErrLedgerFault = errors.New("inventory ledger inconsistency detected")
)
