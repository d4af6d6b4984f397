package models

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"painel/pkg/cnpj"
	dErrors "painel/pkg/domain-errors"
)

// DefaultPassword is assigned to every account the registration form creates.
const DefaultPassword = "admin1"

// FlowState is where a registration form is in its lifecycle. Validating is
// passed through inside BeginSubmit and never rests on a stored form.
type FlowState string

const (
	StateIdle       FlowState = "idle"
	StateValidating FlowState = "validating"
	StateSubmitting FlowState = "submitting"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the confirmation or failure message shown after a submission.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// FormState is one operator's registration modal. Transitions return a new
// value and never modify the receiver.
type FormState struct {
	Email        string
	TaxID        string // as typed, kept formatted
	LicenseCount string
	ExpiresAt    civil.Date
	Errors       FieldErrors
	State        FlowState
	Notice       *Notice
	Closed       bool
}

// Open returns an empty form. The expiration date defaults to today.
func Open(today civil.Date) FormState {
	return FormState{ExpiresAt: today, State: StateIdle}
}

// Edits carries new field values. Nil fields keep their current value.
type Edits struct {
	Email        *string
	TaxID        *string
	LicenseCount *string
	ExpiresAt    *civil.Date
}

// Edit applies field changes. Fields are read-only while submitting.
func (f FormState) Edit(e Edits) (FormState, error) {
	if f.State == StateSubmitting {
		return f, dErrors.New(dErrors.CodeConflict, "form is being submitted")
	}
	next := f
	if e.Email != nil {
		next.Email = *e.Email
	}
	if e.TaxID != nil {
		next.TaxID = cnpj.Format(*e.TaxID)
	}
	if e.LicenseCount != nil {
		next.LicenseCount = *e.LicenseCount
	}
	if e.ExpiresAt != nil {
		next.ExpiresAt = *e.ExpiresAt
	}
	next.Notice = nil
	next.Closed = false
	return next, nil
}

// Input returns the raw field text for Validate.
func (f FormState) Input() Input {
	return Input{Email: f.Email, TaxID: f.TaxID, LicenseCount: f.LicenseCount}
}

// BeginSubmit validates the form. Invalid input returns the form to Idle with
// its errors attached and ok=false; valid input moves it to Submitting.
func (f FormState) BeginSubmit(opts ValidateOptions) (next FormState, ok bool, err error) {
	if f.State == StateSubmitting {
		return f, false, dErrors.New(dErrors.CodeConflict, "submission already in progress")
	}
	next = f
	next.State = StateValidating
	next.Notice = nil

	errs := Validate(next.Input(), opts)
	if !errs.Valid() {
		next.Errors = errs
		next.State = StateIdle
		return next, false, nil
	}
	next.Errors = nil
	next.State = StateSubmitting
	return next, true, nil
}

// Succeed resets every field, closes the form and confirms the registration.
func (f FormState) Succeed(email string, today civil.Date) FormState {
	next := Open(today)
	next.Closed = true
	next.Notice = &Notice{
		Kind:    NoticeSuccess,
		Message: fmt.Sprintf("User %s registered successfully", strings.TrimSpace(email)),
	}
	return next
}

// Fail keeps the fields so the operator can correct and resubmit.
func (f FormState) Fail(message string) FormState {
	next := f
	next.State = StateIdle
	next.Notice = &Notice{Kind: NoticeError, Message: message}
	return next
}

// Close discards the form. Closing is refused while submitting.
func (f FormState) Close(today civil.Date) (FormState, error) {
	if f.State == StateSubmitting {
		return f, dErrors.New(dErrors.CodeConflict, "cannot close the form while submitting")
	}
	next := Open(today)
	next.Closed = true
	return next, nil
}
