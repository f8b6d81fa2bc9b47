package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxer_relay_messages_received_total",
		Help: "Total number of MQTT ingest messages received.",
	}, []string{"source"})

	MessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxer_relay_messages_rejected_total",
		Help: "Total number of ingest messages dropped before batching.",
	}, []string{"reason"})

	PointsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxer_relay_points_relayed_total",
		Help: "Total number of points written to the time-series database.",
	})

	BatchesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxer_relay_batches_written_total",
		Help: "Total number of batches written to the time-series database.",
	})

	WriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxer_relay_write_errors_total",
		Help: "Total number of failed batch writes.",
	})

	BatchesSpooled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxer_relay_batches_spooled_total",
		Help: "Total number of failed batches recorded in the spool.",
	})

	WriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fluxer_relay_write_duration_seconds",
		Help:    "Duration of batch writes to the time-series database.",
		Buckets: prometheus.DefBuckets,
	})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fluxer_relay_batch_points",
		Help:    "Number of points per written batch.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
