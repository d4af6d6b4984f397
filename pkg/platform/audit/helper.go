package audit

import (
	"context"
	"log/slog"

	"painel/pkg/platform/privacy"
	"painel/pkg/requestcontext"
)

// Logger enriches events with request metadata, writes them to the text log
// and forwards them to an optional Emitter. It is itself an Emitter, so
// services stay unaware of where events end up.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. emitter may be nil.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{textLogger: textLogger, emitter: emitter}
}

func (l *Logger) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Actor == "" {
		event.Actor = requestcontext.OperatorEmail(ctx)
	}

	if l.textLogger != nil {
		l.textLogger.InfoContext(ctx, string(event.Action),
			"log_type", "audit",
			"account_id", event.AccountID.String(),
			"subject", maskSubject(event.Subject),
			"actor", privacy.MaskEmail(event.Actor),
			"reason", event.Reason,
			"request_id", event.RequestID,
		)
	}

	if l.emitter == nil {
		return nil
	}
	if err := l.emitter.Emit(ctx, event); err != nil {
		if l.textLogger != nil {
			l.textLogger.ErrorContext(ctx, "failed to emit audit event",
				"error", err,
				"action", string(event.Action),
			)
		}
		return err
	}
	return nil
}

func maskSubject(subject string) string {
	for i := 0; i < len(subject); i++ {
		if subject[i] == '@' {
			return privacy.MaskEmail(subject)
		}
	}
	return subject
}
