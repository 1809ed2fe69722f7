package report

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Dispatch sends msg once. A failure is logged and reported as false; it is
// never retried.
func Dispatch(ctx context.Context, n Notifier, msg string, log *zap.Logger) bool {
	if log == nil {
		log = zap.NewNop()
	}
	if err := n.Send(ctx, msg); err != nil {
		log.Error("failed to send report", zap.Error(err))
		return false
	}
	log.Info("report sent", zap.Int("bytes", len(msg)))
	return true
}
