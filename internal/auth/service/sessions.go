package service

import (
	"context"
	"errors"

	"painel/internal/auth/device"
	"painel/internal/auth/models"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/middleware/session"
	"painel/pkg/platform/sentinel"
	"painel/pkg/requestcontext"
	"painel/pkg/secrets"
)

const (
	outcomeSuccess            = "success"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeError              = "error"
)

// SignIn checks the e-mail and password and opens a session. Unknown e-mails
// and wrong passwords fail the same way.
func (s *Service) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SignInResult, error) {
	credential, err := s.credentials.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.rejectSignIn(ctx, req.Email, "unknown e-mail")
			return nil, dErrors.New(dErrors.CodeInvalidCredentials, "invalid e-mail or password")
		}
		s.metrics.IncSignIn(outcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}

	if err := secrets.VerifyPassword(req.Password, credential.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidCredentials) {
			s.rejectSignIn(ctx, req.Email, "wrong password")
		} else {
			s.metrics.IncSignIn(outcomeError)
		}
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sess := &models.Session{
		ID:        id.NewSessionID(),
		AccountID: credential.AccountID,
		Email:     credential.Email,
		Device:    device.Label(requestcontext.UserAgent(ctx)),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		s.metrics.IncSignIn(outcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	signed, err := s.tokens.Issue(sess.ID, sess.AccountID, sess.Email, sess.ExpiresAt)
	if err != nil {
		s.metrics.IncSignIn(outcomeError)
		return nil, err
	}

	s.metrics.IncSignIn(outcomeSuccess)
	s.emit(ctx, audit.Event{
		Action:    audit.ActionSessionCreated,
		AccountID: sess.AccountID,
		Subject:   sess.Email,
		Actor:     sess.Email,
	})
	return &models.SignInResult{Token: signed, Session: sess, ExpiresAt: sess.ExpiresAt.Unix()}, nil
}

// SignOut revokes the session. Signing out of an unknown or already revoked
// session succeeds.
func (s *Service) SignOut(ctx context.Context, sessionID id.SessionID) error {
	err := s.sessions.Revoke(ctx, sessionID, requestcontext.Now(ctx))
	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrInvalidState):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke session")
	}

	s.metrics.IncSignOut()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionSessionRevoked,
		AccountID: requestcontext.AccountID(ctx),
	})
	return nil
}

// CurrentCredential returns the live session a token refers to, or
// CodeUnauthorized when there is none.
func (s *Service) CurrentCredential(ctx context.Context, rawToken string) (*models.Session, error) {
	if rawToken == "" {
		s.metrics.IncSessionRejected("missing")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session required")
	}

	sessionID, _, err := s.tokens.Verify(rawToken)
	if err != nil {
		s.metrics.IncSessionRejected("invalid_token")
		return nil, err
	}

	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncSessionRejected("unknown")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if !sess.IsActive(requestcontext.Now(ctx)) {
		s.metrics.IncSessionRejected("inactive")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired or revoked")
	}
	return sess, nil
}

// ResolveSession adapts CurrentCredential to the session gate.
func (s *Service) ResolveSession(ctx context.Context, rawToken string) (*session.Principal, error) {
	sess, err := s.CurrentCredential(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return &session.Principal{
		AccountID: sess.AccountID,
		SessionID: sess.ID,
		Email:     sess.Email,
	}, nil
}

func (s *Service) rejectSignIn(ctx context.Context, email, reason string) {
	s.metrics.IncSignIn(outcomeInvalidCredentials)
	s.emit(ctx, audit.Event{
		Action:  audit.ActionSignInFailed,
		Subject: email,
		Reason:  reason,
	})
}
