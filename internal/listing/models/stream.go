package models

import id "painel/pkg/domain"

// Message types exchanged on the listing stream.
const (
	MessageRows   = "rows"
	MessageEdit   = "edit"
	MessageSearch = "search"
	MessageError  = "error"
)

// ClientMessage is sent by the browser over the listing stream. Edit messages
// carry the row and its new terms; search messages carry the filter term.
type ClientMessage struct {
	Type         string       `json:"type"`
	AccountID    id.AccountID `json:"account_id"`
	LicenseCount int          `json:"license_count,omitempty"`
	ExpiresAt    string       `json:"expires_at,omitempty"`
	Query        string       `json:"query,omitempty"`
}

// ServerMessage is pushed to the browser. Exactly one payload is set,
// matching Type.
type ServerMessage struct {
	Type  string        `json:"type"`
	List  *ListResponse `json:"list,omitempty"`
	Edit  *EditResult   `json:"edit,omitempty"`
	Error string        `json:"error,omitempty"`
}

// EditResult reports how an inline edit settled. On failure Row holds the
// restored values.
type EditResult struct {
	AccountID id.AccountID `json:"account_id"`
	OK        bool         `json:"ok"`
	Row       Row          `json:"row"`
	Error     string       `json:"error,omitempty"`
}
