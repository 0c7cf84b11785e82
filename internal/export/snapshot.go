// Package export writes and reads JSON snapshots of the directory state.
//
// A snapshot is two files in the data directory: users.json holds the
// directory mapping and activity.json the accumulated log entries. Both
// carry the stable field set defined in pkg/schema.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/userdir-dev/userdir/pkg/schema"
)

const (
	usersFile    = "users.json"
	activityFile = "activity.json"
)

// Snapshotter handles the disk I/O for the directory.
type Snapshotter struct {
	dataDir string
	mu      sync.Mutex // Protects concurrent writes to the filesystem
	lastSeq uint64
	logger  *zap.Logger
}

// NewSnapshotter initializes a snapshot handler, creating the data
// directory if needed. A nil logger is replaced with a no-op one.
func NewSnapshotter(dir string, logger *zap.Logger) (*Snapshotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{dataDir: dir, logger: logger}, nil
}

// Save writes the user mapping and the activity log atomically. Each file
// is written to a temporary path first and swapped in with a rename, so a
// crash leaves either the old snapshot or the new one, never a torn file.
//
// seq orders captures taken by concurrent background writers: a capture
// older than one already written is silently dropped, so the files on disk
// always reflect the newest capture.
func (s *Snapshotter) Save(seq uint64, users map[string]*schema.UserRecord, entries []schema.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.lastSeq {
		return nil
	}
	s.lastSeq = seq

	var err error
	err = multierr.Append(err, s.writeJSON(usersFile, users))
	err = multierr.Append(err, s.writeJSON(activityFile, entries))
	return err
}

// writeJSON must be called while holding s.mu.
func (s *Snapshotter) writeJSON(name string, v any) error {
	path := filepath.Join(s.dataDir, name)
	tempPath := path + ".tmp"

	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(tempPath, bytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tempPath, path)
}

// Load reads the snapshot back. Missing files are not an error: a fresh
// data directory simply yields an empty directory. A file that exists but
// cannot be decoded is skipped with a warning so one corrupt snapshot half
// does not take the other down; the decode errors are still aggregated and
// returned alongside the partial result.
func (s *Snapshotter) Load() (map[string]*schema.UserRecord, []schema.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[string]*schema.UserRecord)
	var entries []schema.LogEntry
	var errs error

	if err := s.readJSON(usersFile, &users); err != nil {
		s.logger.Warn("skipping unreadable users snapshot",
			zap.String("file", usersFile), zap.Error(err))
		errs = multierr.Append(errs, err)
		users = make(map[string]*schema.UserRecord)
	}
	if err := s.readJSON(activityFile, &entries); err != nil {
		s.logger.Warn("skipping unreadable activity snapshot",
			zap.String("file", activityFile), zap.Error(err))
		errs = multierr.Append(errs, err)
		entries = nil
	}

	return users, entries, errs
}

// readJSON must be called while holding s.mu.
func (s *Snapshotter) readJSON(name string, v any) error {
	content, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
