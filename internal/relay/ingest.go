package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LineMetrics/fluxer/internal/telemetry"
	"github.com/LineMetrics/fluxer/lineprotocol"
)

// message is the JSON body accepted on ingest topics.
//
// Field values may be JSON numbers, numeric strings, or booleans; they
// follow the lineprotocol map conversion rules. The optional timestamp
// is an epoch integer in the relay's configured precision; messages
// without one are stamped on arrival.
type message struct {
	Measurement string            `json:"measurement"`
	Tags        map[string]string `json:"tags"`
	Fields      map[string]any    `json:"fields"`
	Timestamp   *int64            `json:"timestamp"`
}

// Ingest parses one MQTT message and adds it to the batch.
//
// The signature matches the mqtt package's MessageHandler, so a relay
// method value can be subscribed directly. Rejected messages are
// counted by reason and returned for the subscriber's logging; they
// never abort the relay.
//
// Parameters:
//   - topic: The topic the message arrived on
//   - payload: The raw JSON body
//
// Returns:
//   - error: The rejection cause, nil if the message was batched
func (r *Relay) Ingest(topic string, payload []byte) error {
	telemetry.MessagesReceived.WithLabelValues(sourceFromTopic(topic)).Inc()

	line, err := r.parseMessage(payload)
	if err != nil {
		telemetry.MessagesRejected.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	r.add(line)
	return nil
}

// parseMessage decodes, validates, and encodes one ingest message into
// a line protocol record.
func (r *Relay) parseMessage(payload []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var m message
	if err := dec.Decode(&m); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	if m.Measurement == "" {
		return "", ErrMissingMeasurement
	}
	if len(m.Fields) == 0 {
		return "", ErrNoFields
	}
	if err := checkFraming(m); err != nil {
		return "", err
	}

	// The lineprotocol map rules accept numeric strings but not
	// json.Number; hand numbers over as strings.
	for k, v := range m.Fields {
		if n, ok := v.(json.Number); ok {
			m.Fields[k] = n.String()
		}
	}

	ts := r.precision.Convert(time.Now())
	if m.Timestamp != nil {
		ts = *m.Timestamp
	}

	pt, err := lineprotocol.NewPoint(m.Measurement, m.Tags, m.Fields, ts)
	if err != nil {
		return "", err
	}
	return lineprotocol.LineAt(pt.Measurement, pt.Tags, pt.Fields, pt.Timestamp)
}

// checkFraming rejects names that would corrupt the framing of the
// whole batch. The encoder emits measurement, tag, and field names
// verbatim; a delimiter inside one poisons every other point in the
// same payload.
func checkFraming(m message) error {
	if !safeToken(m.Measurement, false) {
		return fmt.Errorf("%w: measurement %q", ErrUnsafeText, m.Measurement)
	}
	for k, v := range m.Tags {
		if !safeToken(k, true) {
			return fmt.Errorf("%w: tag key %q", ErrUnsafeText, k)
		}
		if !safeToken(v, true) {
			return fmt.Errorf("%w: tag %s=%q", ErrUnsafeText, k, v)
		}
	}
	for k := range m.Fields {
		if !safeToken(k, true) {
			return fmt.Errorf("%w: field key %q", ErrUnsafeText, k)
		}
	}
	return nil
}

// safeToken reports whether s can be embedded verbatim in a record.
// Tag keys, tag values, and field keys additionally forbid '='.
func safeToken(s string, forbidEquals bool) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, " ,\n\r") {
		return false
	}
	if forbidEquals && strings.Contains(s, "=") {
		return false
	}
	return true
}

// sourceFromTopic extracts the producer segment of an ingest topic,
// e.g. "fluxer/ingest/boiler" yields "boiler".
func sourceFromTopic(topic string) string {
	if i := strings.LastIndexByte(topic, '/'); i >= 0 && i+1 < len(topic) {
		return topic[i+1:]
	}
	return topic
}

// rejectReason maps a parse error onto its metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrBadPayload):
		return "decode"
	case errors.Is(err, ErrMissingMeasurement):
		return "measurement"
	case errors.Is(err, ErrNoFields):
		return "fields"
	case errors.Is(err, ErrUnsafeText):
		return "framing"
	case errors.Is(err, lineprotocol.ErrInvalidFieldValue):
		return "field_value"
	default:
		return "other"
	}
}
