// Package messaging abstracts the pub/sub broker the outbox worker
// publishes lifecycle events to.
package messaging

import "context"

type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
