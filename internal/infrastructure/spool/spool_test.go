package spool

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// openTestSpool creates a temporary spool for testing.
func openTestSpool(t *testing.T) *Spool {
	t.Helper()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "spool.db")

	s, err := Open(Config{
		Path:        path,
		BusyTimeout: 5,
		WALMode:     true,
	})
	if err != nil {
		t.Fatalf("failed to open test spool: %v", err)
	}

	return s
}

// TestOpen verifies spool creation.
func TestOpen(t *testing.T) {
	t.Run("creates spool file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "spool.db")

		s, err := Open(Config{
			Path:        path,
			BusyTimeout: 5,
			WALMode:     true,
		})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Error("spool file was not created")
		}
	})

	t.Run("creates directory if not exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "subdir", "nested", "spool.db")

		s, err := Open(Config{
			Path:        path,
			BusyTimeout: 5,
			WALMode:     true,
		})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Error("spool directory was not created")
		}
	})

	t.Run("returns path", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "spool.db")

		s, err := Open(Config{
			Path:        path,
			BusyTimeout: 5,
		})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		if s.Path() != path {
			t.Errorf("Path() = %v, want %v", s.Path(), path)
		}
	})

	t.Run("reopens existing spool", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "spool.db")
		cfg := Config{Path: path, BusyTimeout: 5, WALMode: true}

		s, err := Open(cfg)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, err := s.Record(context.Background(), "telemetry", "ms", "m value=1i 1", "connection refused"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		s.Close() //nolint:errcheck // Test cleanup

		// Schema creation must be idempotent and data must survive.
		s, err = Open(cfg)
		if err != nil {
			t.Fatalf("Open() reopen error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		count, err := s.Len(context.Background())
		if err != nil {
			t.Fatalf("Len() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Len() after reopen = %d, want 1", count)
		}
	})
}

// TestRecord verifies journalling of failed batches.
func TestRecord(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	payload := "climate,room=kitchen temp=21.5 1700000000000\nclimate,room=hall temp=19.0 1700000001000"
	id, err := s.Record(ctx, "telemetry", "ms", payload, "unexpected status 503")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if id != 1 {
		t.Errorf("Record() id = %d, want 1", id)
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Database != "telemetry" {
		t.Errorf("Database = %q, want telemetry", e.Database)
	}
	if e.Precision != "ms" {
		t.Errorf("Precision = %q, want ms", e.Precision)
	}
	if e.Payload != payload {
		t.Errorf("Payload = %q, want batch preserved verbatim", e.Payload)
	}
	if e.Reason != "unexpected status 503" {
		t.Errorf("Reason = %q, want unexpected status 503", e.Reason)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want recorded timestamp")
	}
}

// TestList verifies ordering and limits.
func TestList(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Record(ctx, "telemetry", "", "m value=1i", "timeout"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	// Most recent first.
	if entries[0].ID != 5 || entries[1].ID != 4 || entries[2].ID != 3 {
		t.Errorf("entry IDs = [%d %d %d], want [5 4 3]",
			entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestList_Empty(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	entries, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

// TestLen verifies entry counting.
func TestLen(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	count, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Len() = %d, want 0", count)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Record(ctx, "telemetry", "s", "m value=1i", "refused"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	count, err = s.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Len() = %d, want 3", count)
	}
}

// TestPurge verifies cutoff-based removal.
func TestPurge(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if _, err := s.Record(ctx, "telemetry", "", "m value=1i", "timeout"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := s.Record(ctx, "telemetry", "", "m value=2i", "timeout"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// A cutoff in the future removes everything recorded so far.
	removed, err := s.Purge(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Purge() removed = %d, want 2", removed)
	}

	count, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Len() after purge = %d, want 0", count)
	}
}

func TestPurge_KeepsNewer(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if _, err := s.Record(ctx, "telemetry", "", "m value=1i", "timeout"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// A cutoff in the past removes nothing.
	removed, err := s.Purge(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Purge() removed = %d, want 0", removed)
	}
}

// TestDelete verifies single-entry removal.
func TestDelete(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	id, err := s.Record(ctx, "telemetry", "", "m value=1i", "timeout")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	count, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Len() after delete = %d, want 0", count)
	}
}

// TestHealthCheck verifies the health check functionality.
func TestHealthCheck(t *testing.T) {
	s := openTestSpool(t)
	defer s.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

// TestClose verifies graceful shutdown.
func TestClose(t *testing.T) {
	s := openTestSpool(t)

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Close on a nil spool should not error.
	var nilSpool *Spool
	if err := nilSpool.Close(); err != nil {
		t.Errorf("Close() on nil spool error = %v", err)
	}
}
