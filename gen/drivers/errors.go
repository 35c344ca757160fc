package drivers

import "errors"

var (
	// ErrInvariant is returned when adding an entity would break the
	// structural rules of the schema graph
	ErrInvariant = errors.New("invariant violation")
	// ErrUnknownType is returned for base type keywords with no mapping
	ErrUnknownType = errors.New("unknown type")
)
