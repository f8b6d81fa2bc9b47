package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LineMetrics/fluxer"
	"github.com/LineMetrics/fluxer/internal/infrastructure/logging"
	"github.com/LineMetrics/fluxer/internal/telemetry"
)

// Defaults applied when the config leaves batching parameters unset.
const (
	defaultBatchSize     = 200
	defaultFlushInterval = 5 * time.Second
)

// writeTimeout is the outer bound on one flush write. The client's own
// HTTP timeout is normally tighter; this guards a misconfigured one.
const writeTimeout = 30 * time.Second

// spoolTimeout bounds the journal insert for a failed batch.
const spoolTimeout = 5 * time.Second

// Writer is the subset of the fluxer client the relay writes through.
type Writer interface {
	Write(ctx context.Context, db, payload string, precision fluxer.Precision) error
}

// Journal records failed batches for operator inspection and replay.
type Journal interface {
	Record(ctx context.Context, database, precision, payload, reason string) (int64, error)
}

// Relay batches ingest messages and writes them to the time-series
// database.
//
// Messages arrive via Ingest, are encoded to line protocol immediately,
// and accumulate in an in-memory batch. The batch is flushed when it
// reaches the configured size or when the flush interval timer fires.
// A failed flush is journaled to the spool and never retried in
// process.
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
type Relay struct {
	writer    Writer
	journal   Journal
	logger    *logging.Logger
	database  string
	precision fluxer.Precision

	// Batching
	batch         []string
	batchMu       sync.Mutex
	batchSize     int
	flushInterval time.Duration
	flushTick     *time.Ticker
	done          chan struct{}
	wg            sync.WaitGroup

	running bool
	mu      sync.RWMutex
}

// Deps bundles the relay's dependencies and batching parameters.
type Deps struct {
	Writer        Writer
	Journal       Journal // optional; failed batches are dropped without it
	Logger        *logging.Logger
	Database      string
	Precision     fluxer.Precision
	BatchSize     int
	FlushInterval time.Duration
}

// New creates a relay with the given dependencies.
//
// The relay does not accept messages until Start() is called. Zero
// batching parameters fall back to package defaults.
//
// Parameters:
//   - deps: Required dependencies (writer, database) plus batching knobs
//
// Returns:
//   - *Relay: Configured relay ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Relay, error) {
	if deps.Writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	if deps.Database == "" {
		return nil, fmt.Errorf("database is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := deps.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	return &Relay{
		writer:        deps.Writer,
		journal:       deps.Journal,
		logger:        logger,
		database:      deps.Database,
		precision:     deps.Precision,
		batch:         make([]string, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}, nil
}

// Start begins accepting messages and starts the background flush timer.
//
// Calling Start on a running relay is a no-op.
func (r *Relay) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.flushTick = time.NewTicker(r.flushInterval)
	r.done = make(chan struct{})

	r.wg.Add(1)
	go r.flushLoop()

	r.logger.Info("relay started",
		"database", r.database,
		"batch_size", r.batchSize,
		"flush_interval", r.flushInterval.String(),
	)
}

// flushLoop periodically flushes the batch on timer or when done is
// signalled.
func (r *Relay) flushLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.flushTick.C:
			r.Flush()
		case <-r.done:
			return
		}
	}
}

// Close stops the relay and flushes any remaining batched points.
//
// Messages arriving after Close are dropped. Safe to call on a relay
// that was never started.
//
// Returns:
//   - error: nil (flush failures are journaled, not returned)
func (r *Relay) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	wasRunning := r.running
	r.running = false
	r.mu.Unlock()

	if !wasRunning {
		return nil
	}

	// Stop timer and wait for the flush goroutine
	r.flushTick.Stop()
	close(r.done)
	r.wg.Wait()

	// Final flush of remaining data
	r.Flush()

	r.logger.Info("relay stopped")
	return nil
}

// IsRunning reports whether the relay is accepting messages.
func (r *Relay) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// HealthCheck verifies the relay is running.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (r *Relay) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("relay health check: %w", ctx.Err())
	default:
	}

	if !r.IsRunning() {
		return ErrNotRunning
	}
	return nil
}

// Pending returns the number of points waiting in the current batch.
func (r *Relay) Pending() int {
	r.batchMu.Lock()
	defer r.batchMu.Unlock()
	return len(r.batch)
}

// add appends an encoded record to the batch. If the batch reaches the
// configured size, it triggers a flush. Records arriving while the
// relay is stopped are dropped.
func (r *Relay) add(line string) {
	if !r.IsRunning() {
		return
	}

	r.batchMu.Lock()
	r.batch = append(r.batch, line)
	shouldFlush := len(r.batch) >= r.batchSize
	r.batchMu.Unlock()

	if shouldFlush {
		r.Flush()
	}
}

// Flush writes all pending points as one payload.
//
// Called automatically by the flush timer and when the batch fills. It
// can also be called manually for testing or shutdown. A failed write
// is recorded in the journal with the cause as reason; the points are
// not retried in process.
func (r *Relay) Flush() {
	r.batchMu.Lock()
	if len(r.batch) == 0 {
		r.batchMu.Unlock()
		return
	}
	// Swap batch out under lock
	lines := r.batch
	r.batch = make([]string, 0, r.batchSize)
	r.batchMu.Unlock()

	payload := strings.Join(lines, "\n")

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	start := time.Now()
	err := r.writer.Write(ctx, r.database, payload, r.precision)
	telemetry.WriteDuration.Observe(time.Since(start).Seconds())
	telemetry.BatchSize.Observe(float64(len(lines)))

	if err != nil {
		telemetry.WriteErrors.Inc()
		r.logger.Error("batch write failed", "points", len(lines), "error", err)
		r.journalBatch(payload, err)
		return
	}

	telemetry.BatchesWritten.Inc()
	telemetry.PointsRelayed.Add(float64(len(lines)))
	r.logger.Debug("batch written", "points", len(lines))
}

// journalBatch records a failed batch in the spool for operator replay.
func (r *Relay) journalBatch(payload string, cause error) {
	if r.journal == nil {
		r.logger.Warn("spool disabled, dropping failed batch", "bytes", len(payload))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), spoolTimeout)
	defer cancel()

	id, err := r.journal.Record(ctx, r.database, string(r.precision), payload, cause.Error())
	if err != nil {
		r.logger.Error("failed to journal batch", "error", err)
		return
	}

	telemetry.BatchesSpooled.Inc()
	r.logger.Warn("batch journaled for replay", "entry_id", id, "bytes", len(payload))
}
