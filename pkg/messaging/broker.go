package messaging

import (
	"context"
)

// Broker carries notification events between API instances so a user's live
// connections get the push no matter which instance committed the write.
// Delivery through the broker is best-effort; the notification row is the
// source of truth.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
