package repository

import "errors"

var (
	// ErrNoUnits means a reserve guard failed: the record exists but
	// available == 0. No mutation happened.
	ErrNoUnits = errors.New("no available inventory units")

	// ErrRentedUnderflow means a release would drive rented below zero.
	// That is an internal consistency fault, not a user error.
	ErrRentedUnderflow = errors.New("inventory release would drive rented below zero")

	// ErrCapacityConflict means a total adjustment would drive available
	// below zero (more units rented out than the new capacity allows).
	ErrCapacityConflict = errors.New("capacity change conflicts with rented units")

	// ErrStaleStatus means a guarded status update matched no row: the
	// booking changed state between read and write.
	ErrStaleStatus = errors.New("booking status changed concurrently")

	// ErrDuplicate means a uniqueness constraint was violated.
	ErrDuplicate = errors.New("record already exists")
)
