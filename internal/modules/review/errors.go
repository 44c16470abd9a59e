package review

import "errors"

var (
	ErrNotFound   = errors.New("shop not found")
	ErrValidation = errors.New("validation error")

	// ErrNotEligible: only customers with a completed rental at the shop
	// may review it.
	ErrNotEligible = errors.New("no completed rental at this shop")
)
