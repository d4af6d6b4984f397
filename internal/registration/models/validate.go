package models

import (
	"errors"
	"strconv"
	"strings"

	tenantmodels "painel/internal/tenant/models"
	"painel/pkg/cnpj"
	"painel/pkg/validation"
)

// Field names used as keys in FieldErrors and in JSON.
const (
	FieldEmail        = "email"
	FieldTaxID        = "tax_id"
	FieldLicenseCount = "license_count"
)

// FieldErrors maps a field name to a message for the operator. An empty map
// means the input is valid.
type FieldErrors map[string]string

func (f FieldErrors) Valid() bool {
	return len(f) == 0
}

// Input is the raw text of the registration fields.
type Input struct {
	Email        string
	TaxID        string
	LicenseCount string
}

// ValidateOptions tunes the tax id rule. StrictTaxID adds the check-digit test.
type ValidateOptions struct {
	StrictTaxID bool
}

// Validate checks every field independently and reports all failures at once.
func Validate(in Input, opts ValidateOptions) FieldErrors {
	errs := FieldErrors{}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		errs[FieldEmail] = "E-mail is required"
	case !validation.IsEmail(email):
		errs[FieldEmail] = "Enter a valid e-mail address"
	}

	digits := cnpj.Normalize(in.TaxID)
	switch {
	case digits == "":
		errs[FieldTaxID] = "CNPJ is required"
	case !cnpj.IsValid(digits):
		errs[FieldTaxID] = "CNPJ must have 14 digits"
	case opts.StrictTaxID && !cnpj.HasValidCheckDigits(digits):
		errs[FieldTaxID] = "CNPJ check digits do not match"
	}

	count := strings.TrimSpace(in.LicenseCount)
	n, err := strconv.Atoi(count)
	switch {
	case count == "":
		errs[FieldLicenseCount] = "License count is required"
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(count, "-"):
		errs[FieldLicenseCount] = "License count is too large"
	case err != nil || n <= 0:
		errs[FieldLicenseCount] = "License count must be a whole number greater than zero"
	case n > tenantmodels.MaxLicenseCount:
		errs[FieldLicenseCount] = "License count is too large"
	}

	return errs
}

// ParseLicenseCount returns the license count of input that passed Validate.
func ParseLicenseCount(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
