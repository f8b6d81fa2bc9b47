package lineprotocol

import "errors"

// Sentinel errors for line protocol encoding.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, lineprotocol.ErrInvalidFieldValue) {
//	    // Drop the offending point
//	}
var (
	// ErrInvalidFieldValue indicates a field value that cannot be rendered
	// as a line protocol token: non-numeric text on the coercion path, or
	// a NaN/Inf float.
	ErrInvalidFieldValue = errors.New("lineprotocol: invalid field value")

	// ErrNoFields indicates a record with an empty field set. A record
	// without fields is not valid line protocol.
	ErrNoFields = errors.New("lineprotocol: at least one field is required")
)
