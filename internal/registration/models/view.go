package models

// FormView is what a client renders for the registration modal.
type FormView struct {
	Email           string            `json:"email"`
	TaxID           string            `json:"tax_id"`
	LicenseCount    string            `json:"license_count"`
	ExpiresAt       string            `json:"expires_at"`
	Errors          map[string]string `json:"errors,omitempty"`
	State           FlowState         `json:"state"`
	Submitting      bool              `json:"submitting"`
	SubmitEnabled   bool              `json:"submit_enabled"`
	Closed          bool              `json:"closed"`
	PasswordNotice  string            `json:"password_notice"`
	DefaultPassword string            `json:"default_password"`
	Notice          *Notice           `json:"notice,omitempty"`
}

// Render projects the form for display.
func (f FormState) Render() FormView {
	var errs map[string]string
	if len(f.Errors) > 0 {
		errs = make(map[string]string, len(f.Errors))
		for k, v := range f.Errors {
			errs[k] = v
		}
	}
	submitting := f.State == StateSubmitting
	return FormView{
		Email:           f.Email,
		TaxID:           f.TaxID,
		LicenseCount:    f.LicenseCount,
		ExpiresAt:       f.ExpiresAt.String(),
		Errors:          errs,
		State:           f.State,
		Submitting:      submitting,
		SubmitEnabled:   !submitting,
		Closed:          f.Closed,
		PasswordNotice:  "Default password: " + DefaultPassword,
		DefaultPassword: DefaultPassword,
		Notice:          f.Notice,
	}
}
