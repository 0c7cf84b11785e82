// Package schema defines the wire-stable data structures shared across the userdir tool set.
package schema

import "time"

// UserRecord is a single entry in the user directory.
// The JSON field set is stable: the snapshot exporter and the HTTP API rely on it.
type UserRecord struct {
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	CreatedAt time.Time         `json:"created_at"`
	Active    bool              `json:"active"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the record. The directory hands out clones
// only, so callers can never alias its internal state.
func (u *UserRecord) Clone() *UserRecord {
	if u == nil {
		return nil
	}
	out := *u
	if u.Metadata != nil {
		out.Metadata = make(map[string]string, len(u.Metadata))
		for k, v := range u.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// UserChanges describes a partial update to a UserRecord. Nil pointer fields
// are left untouched; Metadata entries are merged into the existing mapping.
type UserChanges struct {
	Email    *string           `json:"email,omitempty"`
	Active   *bool             `json:"active,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Action identifies the kind of directory mutation a LogEntry records.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// LogEntry is one immutable record of an action taken against the directory.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Username  string    `json:"username"`
	Detail    string    `json:"detail,omitempty"`
}
