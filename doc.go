// Package fluxer is a client for time-series databases speaking the
// InfluxDB 1.x HTTP API: line protocol writes to /write, InfluxQL-style
// reads from /query.
//
// # Usage
//
//	client, err := fluxer.New(fluxer.Config{
//	    URL: "http://localhost:8086",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.WriteValue(ctx, "telemetry", "boiler_temp", lineprotocol.FloatValue(54.2))
//
//	resp, err := client.QueryDB(ctx, "telemetry", "SELECT * FROM boiler_temp")
//
// Payload encoding lives in the lineprotocol subpackage; this package
// handles request construction, authentication, status classification
// and response decoding.
//
// # Wire behavior
//
// Writes POST newline-delimited line protocol with Content-Type
// text/plain and succeed only on HTTP 204. Queries GET /query and
// succeed only on HTTP 200 with a JSON body. When both a username and
// a password are configured, every request carries an HTTP Basic
// Authorization header; otherwise the header is omitted entirely.
//
// Assembled request paths have every literal space percent-encoded as
// %20 and no other character touched. Callers embedding other reserved
// characters in database names or queries must pre-escape them.
//
// # Concurrency
//
// A Client is safe for concurrent use. Each call is one stateless
// request/response round trip over a shared keep-alive connection
// pool; there is no internal retry, batching or background state.
//
// # Errors
//
// Failures are typed: transport errors are returned wrapped, an
// unexpected HTTP status yields a *StatusError carrying the code and
// body, and a malformed JSON body on a successful query wraps
// ErrDecodeFailed.
package fluxer
