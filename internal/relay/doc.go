// Package relay implements the MQTT to time-series database ingest
// pipeline.
//
// The relay subscribes to ingest topics, parses JSON measurement
// payloads into line protocol records, and batches them in memory.
// Batches are written through the fluxer client when they reach the
// configured size or age. A failed batch is recorded in the spool
// journal for operator replay; the relay never retries in process.
//
// # Ingest payload
//
// Producers publish JSON:
//
//	{
//	    "measurement": "climate",
//	    "tags": {"room": "kitchen"},
//	    "fields": {"temp": 21.5, "heating": true},
//	    "timestamp": 1700000000
//	}
//
// Field values are numbers, numeric strings, or booleans. The optional
// timestamp is an epoch integer in the relay's configured precision;
// messages without one are stamped on arrival. Malformed messages are
// dropped, counted, and logged, never written.
package relay
