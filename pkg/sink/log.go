package sink

import (
	"context"
	"log/slog"

	"github.com/vango-dev/noorform/pkg/form"
)

// LogSink writes submissions to a logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. If logger is nil, slog.Default() is used.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Store logs sub at info level.
func (s *LogSink) Store(ctx context.Context, sub Submission) error {
	s.logger.InfoContext(ctx, "form submitted",
		"form", sub.Form,
		"id", sub.ID,
		"locale", sub.Locale,
		"fields", len(sub.Values),
	)
	return nil
}

// For returns the SubmitFunc of formName.
func (s *LogSink) For(formName string) form.SubmitFunc {
	return Bind(s, formName)
}
