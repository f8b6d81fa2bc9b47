package spool

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Spool configuration constants.
const (
	// dirPermissions is the permission mode for the spool directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the spool file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying spool connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute
)

// schema creates the journal table. Applied idempotently at Open; the
// spool is a single append-mostly table, so no migration machinery.
const schema = `
CREATE TABLE IF NOT EXISTS spool (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	database_name TEXT NOT NULL,
	precision TEXT NOT NULL,
	payload TEXT NOT NULL,
	reason TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spool_created_at ON spool(created_at);
`

// Spool is a dead-letter journal for write batches the relay could not
// deliver. Entries are kept for operator inspection and manual replay;
// the relay never retries them automatically.
type Spool struct {
	db   *sql.DB
	path string
}

// Config contains spool configuration options.
// These map to the spool section of config.yaml.
type Config struct {
	// Path is the filesystem path to the SQLite spool file.
	// The directory will be created if it doesn't exist.
	Path string

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	// Prevents "database is locked" errors under contention.
	BusyTimeout int

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool
}

// Entry is one journalled write batch.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	// Database is the target database the write was destined for.
	Database string
	// Precision is the timestamp unit the batch was encoded with.
	Precision string
	// Payload is the wire-format batch, preserved verbatim so an
	// operator can replay it unchanged.
	Payload string
	// Reason records why delivery failed.
	Reason string
}

// Open creates the spool with the specified configuration.
//
// It performs the following setup:
//  1. Creates the spool directory if it doesn't exist
//  2. Opens the database file (creates if not present)
//  3. Configures WAL mode and busy timeout
//  4. Sets appropriate file permissions (0600)
//  5. Verifies the connection with a ping
//  6. Creates the journal table if missing
//
// Parameters:
//   - cfg: Spool configuration
//
// Returns:
//   - *Spool: Ready spool
//   - error: If connection or setup fails
func Open(cfg Config) (*Spool, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}

	// Build connection string with pragmas
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)

	// Add WAL mode if enabled
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	// Open database
	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening spool: %w", err)
	}

	// Configure connection pool
	// SQLite works best with a single writer, but multiple readers
	sqlDB.SetMaxOpenConns(1)            // SQLite only supports one writer
	sqlDB.SetMaxIdleConns(1)            // Keep one connection ready
	sqlDB.SetConnMaxLifetime(time.Hour) // Refresh connections hourly
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	s := &Spool{
		db:   sqlDB,
		path: cfg.Path,
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying spool connection: %w", err)
	}

	// Set file permissions (owner read/write only)
	// Ignore error - file might not exist yet on first run, will be set after first write
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // Intentional: first run creates file later

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("creating spool schema: %w", err)
	}

	return s, nil
}

// Record journals a failed write batch.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - database: Target database the write was destined for
//   - precision: Timestamp unit the batch was encoded with
//   - payload: Wire-format batch, stored verbatim
//   - reason: Why delivery failed
//
// Returns:
//   - int64: Journal entry ID
//   - error: If the insert fails
func (s *Spool) Record(ctx context.Context, database, precision, payload, reason string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO spool (created_at, database_name, precision, payload, reason) VALUES (?, ?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339),
		database,
		precision,
		payload,
		reason,
	)
	if err != nil {
		return 0, fmt.Errorf("recording spool entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading spool entry id: %w", err)
	}
	return id, nil
}

// List returns the newest entries, most recent first.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - limit: Maximum entries to return (<=0 means no limit)
//
// Returns:
//   - []Entry: Journalled batches
//   - error: If the query fails
func (s *Spool) List(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT id, created_at, database_name, precision, payload, reason FROM spool ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing spool entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &createdAt, &e.Database, &e.Precision, &e.Payload, &e.Reason); err != nil {
			return nil, fmt.Errorf("scanning spool row: %w", err)
		}
		// Parse timestamp - ignore error as format is controlled by us
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spool rows: %w", err)
	}
	return entries, nil
}

// Len returns the number of journalled entries.
func (s *Spool) Len(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM spool").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting spool entries: %w", err)
	}
	return count, nil
}

// Purge deletes entries created before the cutoff.
//
// RFC3339 in UTC is fixed width, so the stored strings compare in
// chronological order.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - before: Entries older than this are removed
//
// Returns:
//   - int64: Number of entries removed
//   - error: If the delete fails
func (s *Spool) Purge(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM spool WHERE created_at < ?",
		before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("purging spool entries: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading purge count: %w", err)
	}
	return removed, nil
}

// Delete removes a single entry, typically after an operator has
// replayed it.
func (s *Spool) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM spool WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting spool entry %d: %w", id, err)
	}
	return nil
}

// HealthCheck verifies the spool is accessible and functioning.
// It performs a simple query to ensure the connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Spool) HealthCheck(ctx context.Context) error {
	var result int
	err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("spool health check failed: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the spool file.
func (s *Spool) Path() string {
	return s.path
}

// Close closes the spool gracefully.
// It should be called when the application shuts down.
//
// Returns:
//   - error: If closing fails
func (s *Spool) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing spool: %w", err)
	}
	return nil
}
