package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/userdir-dev/userdir/pkg/schema"
)

func testRecords() map[string]*schema.UserRecord {
	return map[string]*schema.UserRecord{
		"alice": {
			Username:  "alice",
			Email:     "alice@example.com",
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Active:    true,
			Metadata:  map[string]string{"team": "platform"},
		},
	}
}

func TestSnapshotter_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := NewSnapshotter(tmpDir, nil)
	if err != nil {
		t.Fatalf("NewSnapshotter failed: %v", err)
	}

	entries := []schema.LogEntry{
		{ID: "1", Action: schema.ActionCreated, Username: "alice", Timestamp: time.Now().UTC()},
	}

	if err := s.Save(1, testRecords(), entries); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	for _, name := range []string{"users.json", "activity.json"} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
			t.Fatalf("Snapshot file %s was not created: %v", name, err)
		}
	}

	users, got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	alice := users["alice"]
	if alice == nil || alice.Email != "alice@example.com" || !alice.Active {
		t.Errorf("Loaded record mismatch: %+v", alice)
	}
	if alice.Metadata["team"] != "platform" {
		t.Errorf("Metadata not round-tripped: %v", alice.Metadata)
	}

	if len(got) != 1 || got[0].Action != schema.ActionCreated {
		t.Errorf("Loaded entries mismatch: %v", got)
	}
}

func TestSnapshotter_LoadEmptyDir(t *testing.T) {
	s, err := NewSnapshotter(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewSnapshotter failed: %v", err)
	}

	users, entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load of empty dir should not fail: %v", err)
	}
	if len(users) != 0 || len(entries) != 0 {
		t.Errorf("Expected empty snapshot, got %d users and %d entries", len(users), len(entries))
	}
}

func TestSnapshotter_LoadSkipsCorruptFile(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := NewSnapshotter(tmpDir, nil)
	if err != nil {
		t.Fatalf("NewSnapshotter failed: %v", err)
	}

	if err := s.Save(1, testRecords(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "activity.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to corrupt activity file: %v", err)
	}

	users, entries, err := s.Load()
	if err == nil {
		t.Error("Expected an aggregated error for the corrupt file")
	}
	if len(users) != 1 {
		t.Errorf("Valid users snapshot should still load, got %d users", len(users))
	}
	if entries != nil {
		t.Errorf("Corrupt activity snapshot should be skipped, got %v", entries)
	}
}

func TestSnapshotter_DropsStaleCapture(t *testing.T) {
	s, err := NewSnapshotter(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewSnapshotter failed: %v", err)
	}

	if err := s.Save(2, testRecords(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// An older capture arriving late must not clobber the newer one.
	if err := s.Save(1, map[string]*schema.UserRecord{}, nil); err != nil {
		t.Fatalf("Stale save should be a no-op, got: %v", err)
	}

	users, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Stale capture overwrote the newer snapshot, got %d users", len(users))
	}
}

func TestSnapshotter_SaveOverwrites(t *testing.T) {
	s, err := NewSnapshotter(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewSnapshotter failed: %v", err)
	}

	if err := s.Save(1, testRecords(), nil); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := s.Save(2, map[string]*schema.UserRecord{}, nil); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	users, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty directory after overwrite, got %d users", len(users))
	}
}
