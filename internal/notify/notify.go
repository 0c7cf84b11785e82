// Package notify delivers account lifecycle notices. The directory core
// never sends mail itself; the service layer calls a Notifier after the
// mutation has been committed.
package notify

import "go.uber.org/zap"

// Notifier receives account lifecycle events.
type Notifier interface {
	// Welcome is called after a user has been created.
	Welcome(email, username string) error
	// Goodbye is called after a user has been deleted.
	Goodbye(email, username string) error
}

// LogNotifier writes structured notices instead of delivering real mail.
// It is the default Notifier for local and test deployments.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a notifier backed by the given logger. A nil
// logger is replaced with a no-op one.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Welcome(email, username string) error {
	n.logger.Info("welcome notice",
		zap.String("username", username),
		zap.String("email", email))
	return nil
}

func (n *LogNotifier) Goodbye(email, username string) error {
	n.logger.Info("goodbye notice",
		zap.String("username", username),
		zap.String("email", email))
	return nil
}
