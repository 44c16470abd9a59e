package inventory

import "errors"

var (
	ErrNotFound     = errors.New("vehicle or inventory record not found")
	ErrInvalidInput = errors.New("invalid inventory input")
	ErrForbidden    = errors.New("actor does not own the vehicle's shop")

	// ErrConflict: the record already exists, or a capacity change would
	// drop available below zero while units are rented out.
	ErrConflict = errors.New("inventory conflict")
)
