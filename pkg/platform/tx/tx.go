// Package tx carries an open *sql.Tx through a context so Postgres stores can
// join the caller's transaction. In-memory stores, which have no transaction
// to join, register undo steps on the context instead.
package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}

type undoKey struct{}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// From returns the transaction stored in ctx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// Undo collects the steps that reverse writes made inside one in-memory
// transaction.
type Undo struct {
	mu    sync.Mutex
	steps []func()
}

// WithUndo returns a context that collects steps registered with OnRollback.
func WithUndo(ctx context.Context) (context.Context, *Undo) {
	u := &Undo{}
	return context.WithValue(ctx, undoKey{}, u), u
}

// OnRollback registers fn to run if the transaction in ctx fails. Outside an
// in-memory transaction it does nothing.
func OnRollback(ctx context.Context, fn func()) {
	u, ok := ctx.Value(undoKey{}).(*Undo)
	if !ok || u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.steps = append(u.steps, fn)
}

// Rollback runs the registered steps newest first. Each step runs once.
func (u *Undo) Rollback() {
	u.mu.Lock()
	steps := u.steps
	u.steps = nil
	u.mu.Unlock()

	for i := len(steps) - 1; i >= 0; i-- {
		steps[i]()
	}
}
