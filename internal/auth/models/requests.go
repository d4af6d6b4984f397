package models

import (
	"painel/pkg/validation"
)

// SignInRequest is the body of POST /api/session.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"notblank"`
}

func (r *SignInRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *SignInRequest) Validate() error {
	return validation.Validate(r)
}

// SignInResult carries the issued token back to the handler.
type SignInResult struct {
	Token     string
	Session   *Session
	ExpiresAt int64
}
