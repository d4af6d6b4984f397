package service

import (
	"context"

	"cloud.google.com/go/civil"

	"painel/internal/listing/models"
	tenantservice "painel/internal/tenant/service"
	id "painel/pkg/domain"
	"painel/pkg/requestcontext"
)

// Edit writes both editable fields of one tenant and returns its fresh row.
func (s *Service) Edit(ctx context.Context, accountID id.AccountID, licenseCount int, expiresAt civil.Date) (models.Row, error) {
	t, err := s.store.UpdateTenant(ctx, tenantservice.UpdateTermsCommand{
		AccountID:    accountID,
		LicenseCount: licenseCount,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return models.Row{}, err
	}
	return models.RowFromTenant(t, s.companyName(ctx, t, nil), s.location), nil
}

// EditRow applies an edit to view optimistically, writes it, and commits on
// success. On failure the row is rolled back and the restored row is returned
// with the error.
func (s *Service) EditRow(ctx context.Context, view *models.View, accountID id.AccountID, licenseCount int, expiresAt civil.Date) (models.Row, error) {
	if _, err := view.BeginEdit(accountID, licenseCount, expiresAt); err != nil {
		return models.Row{}, err
	}

	row, err := s.Edit(ctx, accountID, licenseCount, expiresAt)
	if err != nil {
		s.metrics.IncRollback()
		prior := view.Rollback(accountID)
		s.logger.WarnContext(ctx, "tenant edit rolled back",
			"account_id", accountID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return prior, err
	}

	view.Commit(accountID)
	return row, nil
}
