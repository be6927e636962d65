package catalog

import "errors"

var (
	// ErrNotFound indicates no record matched the lookup.
	ErrNotFound = errors.New("not found")
)
