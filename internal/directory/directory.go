package directory

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/userdir-dev/userdir/internal/activity"
	"github.com/userdir-dev/userdir/internal/export"
	"github.com/userdir-dev/userdir/internal/validate"
	"github.com/userdir-dev/userdir/pkg/schema"
)

// Directory is the thread-safe in-memory user store. It owns its records
// exclusively: lookups and mutations hand out clones, never internal
// pointers. Every successful mutation appends exactly one activity entry;
// failed operations leave both the mapping and the log untouched.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*schema.UserRecord

	log    *activity.Log
	logger *zap.Logger

	snapshotter *export.Snapshotter
	snapSeq     atomic.Uint64
	wg          sync.WaitGroup
}

// newRecord builds the stored representation of a fresh user. The metadata
// is copied so the caller cannot alias directory state.
func newRecord(username, email string, metadata map[string]string) *schema.UserRecord {
	record := &schema.UserRecord{
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}
	if len(metadata) > 0 {
		record.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			record.Metadata[k] = v
		}
	}
	return record
}

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithActivityLog sets the activity log, typically one pre-seeded from a
// snapshot. Defaults to a fresh empty log.
func WithActivityLog(l *activity.Log) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

// WithSnapshotter enables background JSON snapshots after every mutation.
func WithSnapshotter(s *export.Snapshotter) Option {
	return func(d *Directory) {
		d.snapshotter = s
	}
}

// New initializes a directory. It accepts existing records (from a
// snapshot Load) which it adopts as-is.
func New(initial map[string]*schema.UserRecord, opts ...Option) *Directory {
	if initial == nil {
		initial = make(map[string]*schema.UserRecord)
	}
	d := &Directory{
		users:  initial,
		log:    activity.NewLog(nil),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until all background snapshot writes have completed.
func (d *Directory) Wait() {
	d.wg.Wait()
}

// Create validates and stores a new user, returning a copy of the stored
// record. The username must be non-empty and unused; the email must pass
// validation. Nothing is stored or logged on failure.
func (d *Directory) Create(username, email string, metadata map[string]string) (*schema.UserRecord, error) {
	if username == "" {
		d.logger.Warn("create rejected", zap.Error(ErrInvalidUsername))
		return nil, ErrInvalidUsername
	}

	// Existence is checked before the email: a duplicate username is
	// reported as such even when the email is also bad.
	d.mu.Lock()
	if _, ok := d.users[username]; ok {
		d.mu.Unlock()
		d.logger.Warn("create rejected",
			zap.String("username", username), zap.Error(ErrDuplicateUser))
		return nil, fmt.Errorf("create %s: %w", username, ErrDuplicateUser)
	}
	if !validate.Email(email) {
		d.mu.Unlock()
		d.logger.Warn("create rejected",
			zap.String("username", username), zap.Error(ErrInvalidEmail))
		return nil, fmt.Errorf("create %s: %w", username, ErrInvalidEmail)
	}

	record := newRecord(username, email, metadata)
	d.users[username] = record
	result := record.Clone()
	d.mu.Unlock()

	d.log.Append(schema.ActionCreated, username, fmt.Sprintf("user %s created", username))
	d.logger.Info("user created", zap.String("username", username), zap.String("email", email))
	d.snapshot()

	return result, nil
}

// Find returns a copy of the record for username.
func (d *Directory) Find(username string) (*schema.UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	record, ok := d.users[username]
	if !ok {
		return nil, fmt.Errorf("find %s: %w", username, ErrUserNotFound)
	}
	return record.Clone(), nil
}

// Update applies a partial change to an existing user. The email, when
// given, is re-validated before anything is touched, so a failed update
// never leaves a partially mutated record. The username itself is
// immutable.
func (d *Directory) Update(username string, changes schema.UserChanges) (*schema.UserRecord, error) {
	d.mu.Lock()
	record, ok := d.users[username]
	if !ok {
		d.mu.Unlock()
		d.logger.Warn("update rejected",
			zap.String("username", username), zap.Error(ErrUserNotFound))
		return nil, fmt.Errorf("update %s: %w", username, ErrUserNotFound)
	}
	// The email is re-validated before anything is applied, so a failed
	// update never leaves a partially mutated record.
	if changes.Email != nil && !validate.Email(*changes.Email) {
		d.mu.Unlock()
		d.logger.Warn("update rejected",
			zap.String("username", username), zap.Error(ErrInvalidEmail))
		return nil, fmt.Errorf("update %s: %w", username, ErrInvalidEmail)
	}

	if changes.Email != nil {
		record.Email = *changes.Email
	}
	if changes.Active != nil {
		record.Active = *changes.Active
	}
	if len(changes.Metadata) > 0 {
		if record.Metadata == nil {
			record.Metadata = make(map[string]string, len(changes.Metadata))
		}
		for k, v := range changes.Metadata {
			record.Metadata[k] = v
		}
	}
	result := record.Clone()
	d.mu.Unlock()

	d.log.Append(schema.ActionUpdated, username, fmt.Sprintf("user %s updated", username))
	d.logger.Info("user updated", zap.String("username", username))
	d.snapshot()

	return result, nil
}

// Delete removes the user from the directory.
func (d *Directory) Delete(username string) error {
	d.mu.Lock()
	if _, ok := d.users[username]; !ok {
		d.mu.Unlock()
		d.logger.Warn("delete rejected",
			zap.String("username", username), zap.Error(ErrUserNotFound))
		return fmt.Errorf("delete %s: %w", username, ErrUserNotFound)
	}
	delete(d.users, username)
	d.mu.Unlock()

	d.log.Append(schema.ActionDeleted, username, fmt.Sprintf("user %s deleted", username))
	d.logger.Info("user deleted", zap.String("username", username))
	d.snapshot()

	return nil
}

// List returns copies of all records sorted by username.
func (d *Directory) List() []*schema.UserRecord {
	d.mu.RLock()
	out := make([]*schema.UserRecord, 0, len(d.users))
	for _, record := range d.users {
		out = append(out, record.Clone())
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Activity returns a copy of the accumulated log entries in append order.
func (d *Directory) Activity() []schema.LogEntry {
	return d.log.Entries()
}

// snapshot captures a consistent copy of the state and persists it in the
// background, mirroring the write path the directory just took.
func (d *Directory) snapshot() {
	if d.snapshotter == nil {
		return
	}

	seq := d.snapSeq.Add(1)

	d.mu.RLock()
	users := make(map[string]*schema.UserRecord, len(d.users))
	for k, v := range d.users {
		users[k] = v.Clone()
	}
	d.mu.RUnlock()
	entries := d.log.Entries()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.snapshotter.Save(seq, users, entries); err != nil {
			d.logger.Error("snapshot write failed", zap.Error(err))
		}
	}()
}
