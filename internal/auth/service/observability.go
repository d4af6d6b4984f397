package service

import (
	"context"

	"painel/pkg/platform/audit"
)

// emit records an audit event. A failing sink is logged and never fails the operation.
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
