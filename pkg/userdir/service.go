package userdir

import (
	"go.uber.org/zap"

	"github.com/userdir-dev/userdir/internal/activity"
	"github.com/userdir-dev/userdir/internal/directory"
	"github.com/userdir-dev/userdir/internal/export"
	"github.com/userdir-dev/userdir/internal/notify"
	"github.com/userdir-dev/userdir/pkg/schema"
)

// Service is the embedded directory with its collaborators attached.
// It implements Store.
type Service struct {
	dir      *directory.Directory
	notifier notify.Notifier
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger used by the service and the
// directory underneath it. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the lifecycle notifier. Defaults to none.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// Open initializes the directory service. When dataDir is non-empty the
// existing snapshot is loaded from it and every mutation is persisted back
// in the background; an empty dataDir gives a purely in-memory directory.
func Open(dataDir string, opts ...Option) (*Service, error) {
	s := &Service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	dirOpts := []directory.Option{directory.WithLogger(s.logger)}

	if dataDir != "" {
		snap, err := export.NewSnapshotter(dataDir, s.logger)
		if err != nil {
			return nil, err
		}

		users, entries, err := snap.Load()
		if err != nil {
			// Load already degraded to a partial result; keep going.
			s.logger.Warn("snapshot partially loaded", zap.Error(err))
		}

		dirOpts = append(dirOpts,
			directory.WithActivityLog(activity.NewLog(entries)),
			directory.WithSnapshotter(snap),
		)
		s.dir = directory.New(users, dirOpts...)
		return s, nil
	}

	s.dir = directory.New(nil, dirOpts...)
	return s, nil
}

// Create stores a new user and sends the welcome notice. A notifier
// failure is logged, not returned: the record is already committed.
func (s *Service) Create(username, email string, metadata map[string]string) (*schema.UserRecord, error) {
	record, err := s.dir.Create(username, email, metadata)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Welcome(record.Email, record.Username); err != nil {
			s.logger.Warn("welcome notice failed",
				zap.String("username", record.Username), zap.Error(err))
		}
	}
	return record, nil
}

// Find returns a copy of the record for username.
func (s *Service) Find(username string) (*schema.UserRecord, error) {
	return s.dir.Find(username)
}

// Update applies a partial change to an existing user.
func (s *Service) Update(username string, changes schema.UserChanges) (*schema.UserRecord, error) {
	return s.dir.Update(username, changes)
}

// Delete removes a user and sends the goodbye notice.
func (s *Service) Delete(username string) error {
	record, err := s.dir.Find(username)
	if err != nil {
		return err
	}
	if err := s.dir.Delete(username); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Goodbye(record.Email, record.Username); err != nil {
			s.logger.Warn("goodbye notice failed",
				zap.String("username", record.Username), zap.Error(err))
		}
	}
	return nil
}

// List returns copies of all records sorted by username.
func (s *Service) List() []*schema.UserRecord {
	return s.dir.List()
}

// Activity returns the accumulated log entries in append order.
func (s *Service) Activity() []schema.LogEntry {
	return s.dir.Activity()
}

// Export writes a snapshot of the current directory state to dir,
// creating it if needed. The target may differ from the data directory
// the service was opened with; backups go wherever the caller points.
func (s *Service) Export(dir string) error {
	snap, err := export.NewSnapshotter(dir, s.logger)
	if err != nil {
		return err
	}

	records := s.dir.List()
	users := make(map[string]*schema.UserRecord, len(records))
	for _, record := range records {
		users[record.Username] = record
	}
	return snap.Save(1, users, s.dir.Activity())
}

// Wait blocks until background snapshot writes have completed. Call it
// before process exit.
func (s *Service) Wait() {
	s.dir.Wait()
}

var _ Store = (*Service)(nil)
