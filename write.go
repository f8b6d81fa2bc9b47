package fluxer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/LineMetrics/fluxer/lineprotocol"
)

// Write submits a raw line protocol payload.
//
// The payload is sent as-is; precision declares the unit of any
// timestamp tokens it contains. Success is HTTP 204 and nothing else.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - db: Target database name
//   - payload: Newline-delimited line protocol records
//   - precision: Timestamp unit, PrecisionDefault to omit
//
// Returns:
//   - error: nil on 204; *StatusError or wrapped transport error otherwise
func (c *Client) Write(ctx context.Context, db, payload string, precision Precision) error {
	return c.write(ctx, WritePath(db, precision), payload)
}

// WritePoints encodes points as a batch and submits it in one request.
//
// Point timestamps must be expressed in precision's unit; stamp them
// with Precision.Convert to keep the two aligned. An empty point slice
// is a no-op: no request is issued.
func (c *Client) WritePoints(ctx context.Context, db string, points []lineprotocol.Point, precision Precision) error {
	payload, err := lineprotocol.Batch(points)
	if err != nil {
		return err
	}
	if payload == "" {
		return nil
	}
	return c.write(ctx, WritePath(db, precision), payload)
}

// WriteValue submits the minimal untagged record "measurement value=<v>"
// with no timestamp; the server assigns arrival time.
func (c *Client) WriteValue(ctx context.Context, db, measurement string, value lineprotocol.FieldValue) error {
	line, err := lineprotocol.SimpleLine(measurement, value)
	if err != nil {
		return err
	}
	return c.write(ctx, WritePath(db, PrecisionDefault), line)
}

// WriteTagged submits one tagged record with no timestamp.
//
// An empty tag slice degrades to the untagged record form, the same
// normalization Line applies.
func (c *Client) WriteTagged(ctx context.Context, db, measurement string, tags []lineprotocol.Tag, fields []lineprotocol.Field) error {
	line, err := lineprotocol.Line(measurement, tags, fields)
	if err != nil {
		return err
	}
	return c.write(ctx, WritePath(db, PrecisionDefault), line)
}

// write POSTs one payload to the write endpoint.
func (c *Client) write(ctx context.Context, path, payload string) error {
	c.debug("tsdb write", "path", path, "bytes", len(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating write request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	if _, err := c.do(req, http.StatusNoContent); err != nil {
		return fmt.Errorf("executing write: %w", err)
	}
	return nil
}
