package service

import (
	"context"

	"painel/internal/registration/models"
	tenantservice "painel/internal/tenant/service"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/tracer"
	"painel/pkg/requestcontext"
)

const (
	outcomeRegistered = "registered"
	outcomeInvalid    = "invalid"
	outcomeFailed     = "failed"
)

// Submit applies the edits to the session's form and registers the tenant:
// credential first, then the tenant record and namespace placeholder. The
// returned view is always the form after the attempt; err carries the reason
// when the attempt did not register anyone.
func (s *Service) Submit(ctx context.Context, sessionID id.SessionID, edits models.Edits) (view models.FormView, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegistration)
	defer func() { span.End(err) }()

	now := requestcontext.Now(ctx)

	s.mu.Lock()
	form := s.formLocked(sessionID, now)
	edited, err := form.state.Edit(edits)
	if err != nil {
		current := form.state.Render()
		s.mu.Unlock()
		return current, err
	}
	submitting, ok, err := edited.BeginSubmit(s.validate)
	if err != nil {
		current := form.state.Render()
		s.mu.Unlock()
		return current, err
	}
	form.state = submitting
	s.mu.Unlock()

	if !ok {
		s.metrics.IncSubmission(outcomeInvalid)
		span.SetAttributes(tracer.String(tracer.AttrOutcome, outcomeInvalid))
		return submitting.Render(), dErrors.New(dErrors.CodeValidation, "registration form has invalid fields")
	}

	if err := s.register(ctx, submitting); err != nil {
		failed := submitting.Fail(failureMessage(err))
		s.saveForm(sessionID, failed, false)
		s.metrics.IncSubmission(outcomeFailed)
		span.SetAttributes(tracer.String(tracer.AttrOutcome, outcomeFailed))
		return failed.Render(), err
	}

	done := submitting.Succeed(submitting.Email, s.today(requestcontext.Now(ctx)))
	s.saveForm(sessionID, done, true)
	s.metrics.IncSubmission(outcomeRegistered)
	span.SetAttributes(tracer.String(tracer.AttrOutcome, outcomeRegistered))
	return done.Render(), nil
}

func (s *Service) register(ctx context.Context, form models.FormState) error {
	credential, err := s.store.CreateCredential(ctx, form.Email, models.DefaultPassword)
	if err != nil {
		return err
	}

	_, err = s.store.WriteTenantDocuments(ctx, tenantservice.WriteDocumentsCommand{
		AccountID:    credential.AccountID,
		Email:        credential.Email,
		TaxID:        form.TaxID,
		LicenseCount: models.ParseLicenseCount(form.LicenseCount),
		ExpiresAt:    form.ExpiresAt,
	})
	if err != nil {
		s.compensate(ctx, credential.AccountID, credential.Email, err)
		return err
	}
	return nil
}

// compensate deletes a credential whose tenant documents could not be
// written. A credential that cannot be deleted is reported, never hidden.
func (s *Service) compensate(ctx context.Context, accountID id.AccountID, email string, cause error) {
	// The request may already be cancelled; the cleanup must still run.
	cleanupCtx := context.WithoutCancel(ctx)
	if err := s.store.DeleteCredential(cleanupCtx, accountID); err != nil {
		s.metrics.IncCompensation("failed")
		s.logger.ErrorContext(ctx, "orphaned credential after failed registration",
			"account_id", accountID.String(),
			"write_error", cause,
			"delete_error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.emit(cleanupCtx, audit.Event{
			Action:    audit.ActionOrphanedCredential,
			AccountID: accountID,
			Subject:   email,
			Actor:     requestcontext.OperatorEmail(ctx),
			Reason:    cause.Error(),
			RequestID: requestcontext.RequestID(ctx),
		})
		return
	}
	s.metrics.IncCompensation("deleted")
	s.logger.WarnContext(ctx, "credential deleted after failed registration",
		"account_id", accountID.String(),
		"write_error", cause,
	)
}

// saveForm stores the form after a submission. A successful submission discards
// it, so the next open starts empty.
func (s *Service) saveForm(sessionID id.SessionID, state models.FormState, discard bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if discard {
		delete(s.forms, sessionID)
		return
	}
	if form, ok := s.forms[sessionID]; ok {
		form.state = state
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

// failureMessage turns a registration failure into the notice shown to the
// operator. Unknown failures show their own message.
func failureMessage(err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeEmailInUse:
		return "This e-mail is already registered"
	case dErrors.CodeInvalidEmail:
		return "Invalid e-mail"
	case dErrors.CodeWeakPassword:
		return "Password is too weak"
	default:
		return err.Error()
	}
}
