package catalog

import "errors"

var (
	ErrNotFound   = errors.New("shop or vehicle not found")
	ErrForbidden  = errors.New("actor does not own this shop")
	ErrValidation = errors.New("validation error")
)
