package stockroom

import "errors"

var (
	// ErrDuplicateKey rejects creation of a part number that already exists.
	ErrDuplicateKey = errors.New("part number already exists")

	// ErrNotFound rejects an adjustment against an unknown part number.
	ErrNotFound = errors.New("item not found")

	// ErrInsufficientStock rejects an adjustment that would drive the
	// quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAccessDenied rejects an employee ID that is not whitelisted.
	ErrAccessDenied = errors.New("access denied")

	ErrInvalidPartNumber = errors.New("part number is required")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
	ErrInvalidAmount     = errors.New("change amount must not be zero")
)
