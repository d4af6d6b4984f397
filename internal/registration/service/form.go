package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"painel/internal/registration/models"
	id "painel/pkg/domain"
	"painel/pkg/requestcontext"
)

// OpenForm returns the session's open form, opening an empty one if needed.
func (s *Service) OpenForm(ctx context.Context, sessionID id.SessionID) models.FormView {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	return s.formLocked(sessionID, now).state.Render()
}

// CloseForm discards the session's form. It fails while a submission is in
// flight.
func (s *Service) CloseForm(ctx context.Context, sessionID id.SessionID) (models.FormView, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	form, ok := s.forms[sessionID]
	if !ok {
		closed, _ := models.Open(s.today(now)).Close(s.today(now))
		return closed.Render(), nil
	}
	closed, err := form.state.Close(s.today(now))
	if err != nil {
		return form.state.Render(), err
	}
	delete(s.forms, sessionID)
	return closed.Render(), nil
}

func (s *Service) formLocked(sessionID id.SessionID, now time.Time) *openForm {
	form, ok := s.forms[sessionID]
	if !ok {
		form = &openForm{state: models.Open(s.today(now)), openedAt: now}
		s.forms[sessionID] = form
	}
	return form
}

// pruneLocked drops idle forms whose sessions have most likely ended.
func (s *Service) pruneLocked(now time.Time) {
	for sessionID, form := range s.forms {
		if form.state.State != models.StateSubmitting && now.Sub(form.openedAt) > s.formTTL {
			delete(s.forms, sessionID)
		}
	}
}

func (s *Service) today(now time.Time) civil.Date {
	return civil.DateOf(now.In(s.location))
}
