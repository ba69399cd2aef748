package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransferReceived is sent to the owner of a transfer's destination account.
	KindTransferReceived = "transfer_received"
	// KindAccountClosed is sent to the owner of a closed account.
	KindAccountClosed = "account_closed"
)

// Message describes a notification payload.
type Message struct {
	Kind   string
	UserID int64
	Body   string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "user_id", message.UserID, "body", message.Body)
	return nil
}
