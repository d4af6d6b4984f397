package service

import (
	"cloud.google.com/go/civil"

	id "painel/pkg/domain"
)

// WriteDocumentsCommand carries the tenant fields written at registration.
type WriteDocumentsCommand struct {
	AccountID    id.AccountID
	Email        string
	TaxID        string
	LicenseCount int
	ExpiresAt    civil.Date
}

// UpdateTermsCommand carries the fields an operator may edit on a tenant.
type UpdateTermsCommand struct {
	AccountID    id.AccountID
	LicenseCount int
	ExpiresAt    civil.Date
}
