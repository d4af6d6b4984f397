package session

import (
	"fmt"

	"painel/pkg/platform/sentinel"
)

var ErrSessionRevoked = fmt.Errorf("session has been revoked: %w", sentinel.ErrInvalidState)
