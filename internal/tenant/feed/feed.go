// Package feed carries tenant collection changes from writers to subscribed
// listings. A change is only a signal; subscribers re-read the collection.
package feed

import (
	"context"

	"painel/internal/tenant/models"
)

// Subscription delivers changes until Close is called. C is closed once the
// subscription is released.
type Subscription interface {
	C() <-chan models.Change
	Close()
}

// Broker publishes changes to every open subscription.
type Broker interface {
	Publish(ctx context.Context, change models.Change) error
	Subscribe(ctx context.Context) (Subscription, error)
}

const subscriptionBuffer = 16
