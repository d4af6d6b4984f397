package service

import (
	"context"
	"sync"

	"painel/internal/tenant/feed"
	"painel/internal/tenant/models"
	"painel/pkg/platform/audit"
)

// publish signals subscribers after a committed write. The write already
// succeeded, so a failing broker is logged and counted only.
func (s *Service) publish(ctx context.Context, change models.Change) {
	if s.changes == nil {
		return
	}
	if err := s.changes.Publish(ctx, change); err != nil {
		s.metrics.IncFeedPublishFailure()
		s.logger.WarnContext(ctx, "tenant change not published",
			"kind", string(change.Kind),
			"account_id", change.AccountID.String(),
			"error", err,
		)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(event.Action),
			"error", err,
		)
	}
}

type trackedSubscription struct {
	feed.Subscription
	once    sync.Once
	onClose func()
}

func (t *trackedSubscription) Close() {
	t.once.Do(func() {
		t.Subscription.Close()
		t.onClose()
	})
}
