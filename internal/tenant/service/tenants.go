package service

import (
	"context"
	"errors"

	"painel/internal/tenant/feed"
	"painel/internal/tenant/models"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/sentinel"
	"painel/pkg/requestcontext"
)

// WriteTenantDocuments writes the tenant record and the namespace placeholder
// in one transaction. Nothing is published unless both writes committed.
func (s *Service) WriteTenantDocuments(ctx context.Context, cmd WriteDocumentsCommand) (*models.Tenant, error) {
	tenant, err := models.NewTenant(cmd.AccountID, cmd.Email, cmd.TaxID, cmd.LicenseCount, cmd.ExpiresAt, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tenants.Create(txCtx, tenant); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "account already has a tenant record")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write tenant")
		}
		ns := &models.Namespace{TaxID: tenant.TaxID, CreatedAt: tenant.CreatedAt}
		if err := s.namespaces.Ensure(txCtx, ns); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write namespace")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncWriteFailure("register")
		return nil, err
	}

	s.metrics.IncRegistered()
	s.publish(ctx, models.Change{Kind: models.ChangeRegistered, AccountID: tenant.AccountID, At: tenant.CreatedAt})
	s.emit(ctx, audit.Event{
		Action:    audit.ActionTenantRegistered,
		AccountID: tenant.AccountID,
		Subject:   tenant.TaxID,
	})
	return tenant, nil
}

// UpdateTenant replaces the license count and expiry of a tenant. Every
// other field keeps its stored value.
func (s *Service) UpdateTenant(ctx context.Context, cmd UpdateTermsCommand) (*models.Tenant, error) {
	var updated *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		tenant, err := s.tenants.FindByID(txCtx, cmd.AccountID)
		if err != nil {
			return wrapTenantErr(err)
		}
		if err := tenant.ApplyTerms(cmd.LicenseCount, cmd.ExpiresAt); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, err.Error())
		}
		if err := s.tenants.UpdateTerms(txCtx, tenant.AccountID, tenant.LicenseCount, tenant.ExpiresAt); err != nil {
			return wrapTenantErr(err)
		}
		updated = tenant
		return nil
	})
	if err != nil {
		s.metrics.IncWriteFailure("update")
		return nil, err
	}

	s.metrics.IncUpdated()
	s.publish(ctx, models.Change{Kind: models.ChangeUpdated, AccountID: updated.AccountID, At: requestcontext.Now(ctx)})
	s.emit(ctx, audit.Event{
		Action:    audit.ActionTenantUpdated,
		AccountID: updated.AccountID,
		Subject:   updated.TaxID,
	})
	return updated, nil
}

// ListTenants returns every tenant ordered by creation time, then account id.
func (s *Service) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	tenants, err := s.tenants.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}
	return tenants, nil
}

// SubscribeTenants opens a subscription to collection changes. The caller
// must Close it.
func (s *Service) SubscribeTenants(ctx context.Context) (feed.Subscription, error) {
	sub, err := s.changes.Subscribe(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to subscribe to tenant changes")
	}
	s.metrics.SubscriptionOpened()
	return &trackedSubscription{Subscription: sub, onClose: s.metrics.SubscriptionClosed}, nil
}

func wrapTenantErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "tenant store error")
}
