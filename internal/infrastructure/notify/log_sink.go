package notify

import (
	"context"

	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

// LogSink writes notifications to the structured log. It is the default
// sink when no delivery backend is configured.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, msg notification.Message) error {
	s.logger.InfoContext(ctx, "notification",
		"recipient_id", msg.RecipientID,
		"kind", msg.Kind,
		"message", msg.Text,
		"metadata", msg.Metadata,
	)
	return nil
}
