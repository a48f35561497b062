package client

import "errors"

var (
	// ErrNoEndpoint means the store URL was never configured.
	ErrNoEndpoint = errors.New("store endpoint is not configured")

	// ErrTimeout wraps a request that exceeded the bounded call timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrServer is any non-success envelope without a more specific code.
	ErrServer = errors.New("store returned an error")

	ErrDuplicateKey      = errors.New("part number already exists")
	ErrNotFound          = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAccessDenied      = errors.New("access denied")
)
