package service

import (
	"context"
	"sync"

	dErrors "painel/pkg/domain-errors"
)

// Watch refreshes the grid now and after every change on the tenant feed,
// handing each snapshot to onRows. At most one refresh runs at a time; changes
// that arrive while it runs collapse into a single follow-up refresh. A
// snapshot older than one already delivered is dropped. onRows is never called
// concurrently and never after Watch returns.
//
// Watch blocks until ctx ends, then releases the subscription and returns
// nil. It returns an error if the subscription cannot be opened or the feed
// closes underneath it.
func (s *Service) Watch(ctx context.Context, onRows func(Snapshot)) error {
	sub, err := s.store.SubscribeTenants(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to subscribe to tenants")
	}
	defer sub.Close()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	var delivered uint64
	deliver := func(snap Snapshot) {
		if ctx.Err() != nil {
			return
		}
		if snap.Generation <= delivered {
			s.metrics.IncStale()
			s.logger.DebugContext(ctx, "discarding stale refresh",
				"generation", snap.Generation,
				"delivered", delivered,
			)
			return
		}
		delivered = snap.Generation
		onRows(snap)
	}

	// pending holds at most one queued refresh.
	pending := make(chan struct{}, 1)
	pending <- struct{}{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
			}
			snap, err := s.Refresh(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.WarnContext(ctx, "listing refresh failed", "error", err)
				}
				continue
			}
			deliver(snap)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sub.C():
			if !ok {
				return dErrors.New(dErrors.CodeUnavailable, "tenant feed closed")
			}
			select {
			case pending <- struct{}{}:
			default:
				s.metrics.IncCoalesced()
			}
		}
	}
}
