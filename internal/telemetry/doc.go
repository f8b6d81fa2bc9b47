// Package telemetry exposes the relay's operational metrics in
// Prometheus exposition format.
//
// Metrics are registered on the default Prometheus registry at package
// init and updated by the relay as it processes messages: ingest
// counters, write outcome counters, and latency histograms. The Server
// type serves them on GET /metrics for scraping.
package telemetry
