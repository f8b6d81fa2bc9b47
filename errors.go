package fluxer

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, fluxer.ErrDecodeFailed) {
//	    // Response arrived but was not valid JSON
//	}
var (
	// ErrMissingURL indicates a Config without a database URL.
	ErrMissingURL = errors.New("fluxer: config URL is required")

	// ErrDecodeFailed indicates a query response with status 200 whose
	// body is not valid JSON.
	ErrDecodeFailed = errors.New("fluxer: decoding response failed")
)

// StatusError reports a response whose HTTP status is not the success
// code for the operation: 204 for writes, 200 for queries. It carries
// the status and the (truncated) response body so callers can decide
// how to react. Retrieve it with errors.As.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fluxer: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("fluxer: unexpected status %d: %s", e.StatusCode, e.Body)
}
