package models

import (
	"sync"

	"cloud.google.com/go/civil"

	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
)

// View is one subscriber's copy of the grid. Edits are applied optimistically
// and either committed or rolled back once the write returns.
type View struct {
	mu      sync.Mutex
	rows    []Row
	pending map[id.AccountID]Row
}

func NewView(rows []Row) *View {
	v := &View{pending: make(map[id.AccountID]Row)}
	v.rows = append([]Row(nil), rows...)
	return v
}

// Rows returns a copy of the current rows.
func (v *View) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Row(nil), v.rows...)
}

// Replace installs a fresh row set. Rows with an edit in flight keep their
// optimistic values until the edit settles.
func (v *View) Replace(rows []Row) {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := append([]Row(nil), rows...)
	for i := range next {
		if _, ok := v.pending[next[i].AccountID]; !ok {
			continue
		}
		if cur, ok := v.findLocked(next[i].AccountID); ok {
			v.pending[next[i].AccountID] = next[i]
			next[i].LicenseCount = v.rows[cur].LicenseCount
			next[i].ExpiresAt = v.rows[cur].ExpiresAt
		}
	}
	v.rows = next
}

// BeginEdit applies the new terms to the row and remembers its prior value.
func (v *View) BeginEdit(accountID id.AccountID, licenseCount int, expiresAt civil.Date) (Row, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i, ok := v.findLocked(accountID)
	if !ok {
		return Row{}, dErrors.New(dErrors.CodeNotFound, "tenant not in view")
	}
	if _, busy := v.pending[accountID]; busy {
		return Row{}, dErrors.New(dErrors.CodeConflict, "an edit is already in progress for this tenant")
	}
	v.pending[accountID] = v.rows[i]
	v.rows[i].LicenseCount = licenseCount
	v.rows[i].ExpiresAt = expiresAt
	return v.rows[i], nil
}

// Commit keeps the optimistic values.
func (v *View) Commit(accountID id.AccountID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.pending, accountID)
}

// Rollback restores the row to its value before BeginEdit.
func (v *View) Rollback(accountID id.AccountID) Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	prior, ok := v.pending[accountID]
	if !ok {
		return Row{}
	}
	delete(v.pending, accountID)
	if i, found := v.findLocked(accountID); found {
		v.rows[i] = prior
	}
	return prior
}

func (v *View) findLocked(accountID id.AccountID) (int, bool) {
	for i := range v.rows {
		if v.rows[i].AccountID == accountID {
			return i, true
		}
	}
	return 0, false
}
