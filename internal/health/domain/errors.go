package health

import "errors"

var (
	// ErrMissingOwnerID is returned when a payload carries no owner id.
	ErrMissingOwnerID = errors.New("health: missing owner id")
	// ErrUnknownKind is returned when a query names an unregistered metric kind.
	ErrUnknownKind = errors.New("health: unknown metric kind")
	// ErrInvalidPeriod is returned when a period class cannot be resolved.
	ErrInvalidPeriod = errors.New("health: invalid period")
	// ErrRecordNotFound is returned when no record matches a latest lookup.
	ErrRecordNotFound = errors.New("health: record not found")
)
