package query

import "errors"

var (
	// ErrUnknownPredicate means the requested name is not in the catalog.
	ErrUnknownPredicate = errors.New("unknown predicate")
	// ErrInvalidInput means a numeric predicate received text that is not a
	// finite number.
	ErrInvalidInput = errors.New("invalid input")
)
