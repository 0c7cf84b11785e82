// Package activity implements the append-only action log of the user directory.
package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/userdir-dev/userdir/pkg/schema"
)

// Log is an append-only ordered sequence of LogEntry values. Entries are
// never mutated or removed once recorded.
type Log struct {
	mu      sync.Mutex
	entries []schema.LogEntry
}

// NewLog returns an empty activity log, optionally pre-seeded with entries
// restored from a snapshot.
func NewLog(initial []schema.LogEntry) *Log {
	l := &Log{}
	if len(initial) > 0 {
		l.entries = append(l.entries, initial...)
	}
	return l
}

// Record appends an entry as-is. Used when replaying a snapshot; the
// directory goes through Append instead.
func (l *Log) Record(e schema.LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Append stamps and records a new entry, returning the stored value.
func (l *Log) Append(action schema.Action, username, detail string) schema.LogEntry {
	e := schema.LogEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Username:  username,
		Detail:    detail,
	}
	l.Record(e)
	return e
}

// Entries returns a copy of the recorded entries in append order.
func (l *Log) Entries() []schema.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]schema.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
