package service

import (
	"context"
	"errors"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/sentinel"
	"painel/pkg/requestcontext"
	"painel/pkg/secrets"
	"painel/pkg/validation"
)

// CreateCredential creates an account with the given e-mail and password.
// Failures carry CodeInvalidEmail, CodeWeakPassword or CodeEmailInUse, checked
// in that order.
func (s *Service) CreateCredential(ctx context.Context, email, password string) (*models.Credential, error) {
	email = models.NormalizeEmail(email)
	if !validation.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeInvalidEmail, "invalid e-mail address")
	}

	hash, err := secrets.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, err
	}

	credential, err := models.NewCredential(email, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.credentials.Create(ctx, credential); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeEmailInUse, "e-mail already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create credential")
	}

	s.metrics.IncCredentialCreated()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionCredentialCreated,
		AccountID: credential.AccountID,
		Subject:   credential.Email,
	})
	return credential, nil
}

// DeleteCredential removes an account and every session it holds.
func (s *Service) DeleteCredential(ctx context.Context, accountID id.AccountID) error {
	credential, err := s.credentials.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}

	if err := s.sessions.DeleteByAccount(ctx, accountID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete sessions")
	}
	if err := s.credentials.Delete(ctx, accountID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete credential")
	}

	s.metrics.IncCredentialDeleted()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionCredentialDeleted,
		AccountID: accountID,
		Subject:   credential.Email,
	})
	return nil
}

// EnsureOperator returns the credential for email, creating it with password
// when it does not exist yet. created reports which happened.
func (s *Service) EnsureOperator(ctx context.Context, email, password string) (credential *models.Credential, created bool, err error) {
	existing, err := s.credentials.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up operator")
	}

	credential, err = s.CreateCredential(ctx, email, password)
	if err != nil {
		return nil, false, err
	}
	return credential, true, nil
}
