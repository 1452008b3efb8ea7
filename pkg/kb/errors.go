package kb

import "errors"

var (
	// ErrNotFound reports a query or mutation whose target row does not exist.
	ErrNotFound = errors.New("kb: no matching item")
	// ErrAlreadyExists reports an insertion that collides with an existing row.
	ErrAlreadyExists = errors.New("kb: item already exists")
	// ErrSourceExists reports a duplicate source registration.
	ErrSourceExists = errors.New("kb: source already exists")
	// ErrSourceUnknown reports a row referencing an unregistered source.
	ErrSourceUnknown = errors.New("kb: source not registered")
	// ErrDuplicateSequence reports a sequence id already present for the
	// source. The whole batch is rejected, nothing is applied.
	ErrDuplicateSequence = errors.New("kb: sequence id already present for source")
	// ErrInvalidQuery reports an unsatisfiable predicate combination.
	ErrInvalidQuery = errors.New("kb: invalid query")
)
