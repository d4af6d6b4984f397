package models

import (
	"time"

	id "painel/pkg/domain"
)

type ChangeKind string

const (
	ChangeRegistered ChangeKind = "registered"
	ChangeUpdated    ChangeKind = "updated"
)

// Change is published on the tenant feed after every committed write. It only
// signals that the collection moved; subscribers re-read it.
type Change struct {
	Kind      ChangeKind   `json:"kind"`
	AccountID id.AccountID `json:"account_id"`
	At        time.Time    `json:"at"`
}
