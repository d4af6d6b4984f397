package audit

import (
	"context"
	"time"

	id "painel/pkg/domain"
)

// Event records an operator-visible action. It is transport-agnostic so
// stores and sinks can fan out.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	Action    Action       `json:"action"`
	AccountID id.AccountID `json:"account_id"`
	// Subject is the human identifier of what was acted on: an e-mail for
	// credentials, a normalized tax id for tenants.
	Subject   string `json:"subject,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Action string

const (
	ActionSessionCreated     Action = "session.created"
	ActionSessionRevoked     Action = "session.revoked"
	ActionSignInFailed       Action = "session.sign_in_failed"
	ActionCredentialCreated  Action = "credential.created"
	ActionCredentialDeleted  Action = "credential.deleted"
	ActionTenantRegistered   Action = "tenant.registered"
	ActionTenantUpdated      Action = "tenant.updated"
	ActionOrphanedCredential Action = "registration.orphaned_credential"
)

// Store persists events. Append must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is what services depend on to record events.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
