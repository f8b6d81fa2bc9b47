// Package spool provides a SQLite-backed dead-letter journal for
// undeliverable write batches.
//
// When the relay cannot deliver a batch to the time-series database it
// records the wire-format payload here instead of retrying. The journal
// preserves payloads verbatim so an operator can inspect failures and
// replay them once the database recovers.
//
// # Why no automatic retry
//
// The relay makes exactly one delivery attempt per batch. Automatic
// replay would reorder points around newer traffic and can amplify an
// outage; a journal plus operator-driven replay keeps failure handling
// predictable.
//
// # Storage
//
//   - Single SQLite file, WAL mode, owner-only permissions (0600)
//   - One row per failed batch with target database, precision, payload
//     and failure reason
//   - Purge removes entries older than a cutoff
//
// # Usage
//
//	s, err := spool.Open(spool.Config{Path: "./data/spool.db", BusyTimeout: 5, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	id, err := s.Record(ctx, "telemetry", "ms", payload, err.Error())
package spool
