package relay

import "errors"

// Sentinel errors for ingest rejection and lifecycle checks.
//
// Each rejection error maps to a reason label on the
// fluxer_relay_messages_rejected_total counter:
//
//	if errors.Is(err, relay.ErrBadPayload) {
//	    // counted under reason="decode"
//	}
var (
	// ErrBadPayload indicates a message body that is not valid JSON.
	ErrBadPayload = errors.New("relay: malformed ingest payload")

	// ErrMissingMeasurement indicates a message without a measurement name.
	ErrMissingMeasurement = errors.New("relay: measurement is required")

	// ErrNoFields indicates a message with an empty field set.
	ErrNoFields = errors.New("relay: at least one field is required")

	// ErrUnsafeText indicates a measurement, tag, or field key containing
	// line protocol delimiters. The encoder emits these verbatim, so one
	// such message would corrupt every other point in the same payload.
	ErrUnsafeText = errors.New("relay: text would corrupt line protocol framing")

	// ErrNotRunning indicates the relay has not been started or has
	// already been closed.
	ErrNotRunning = errors.New("relay: not running")
)
