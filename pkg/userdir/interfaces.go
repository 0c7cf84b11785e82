// Package userdir is the public embedded API for the user directory.
// It wires the single-purpose pieces (validation, storage, activity log,
// notifications, snapshots) behind a thin orchestration boundary.
package userdir

import (
	"github.com/userdir-dev/userdir/internal/directory"
	"github.com/userdir-dev/userdir/pkg/schema"
)

// Sentinel errors, re-exported so callers never import internal packages.
var (
	ErrDuplicateUser   = directory.ErrDuplicateUser
	ErrUserNotFound    = directory.ErrUserNotFound
	ErrInvalidEmail    = directory.ErrInvalidEmail
	ErrInvalidUsername = directory.ErrInvalidUsername
)

// --- Functional Interfaces (Interface Segregation) ---

// Reader defines the lookup operations of the directory.
type Reader interface {
	Find(username string) (*schema.UserRecord, error)
	List() []*schema.UserRecord
}

// Writer defines the mutating operations of the directory.
type Writer interface {
	Create(username, email string, metadata map[string]string) (*schema.UserRecord, error)
	Update(username string, changes schema.UserChanges) (*schema.UserRecord, error)
	Delete(username string) error
}

// ActivityReader exposes the append-only action log.
type ActivityReader interface {
	Activity() []schema.LogEntry
}

// Exporter writes an on-demand snapshot of the directory, independent of
// the background persistence wired at Open time.
type Exporter interface {
	Export(dir string) error
}

// --- Composite Interface ---

// Store is the full directory contract. Handlers and tools should depend
// on the narrowest interface that serves them; Store is for callers that
// genuinely need everything.
type Store interface {
	Reader
	Writer
	ActivityReader
	Exporter
}
