package messaging

import (
	"context"
)

// Broker carries change notifications from the entity store to anyone holding
// a cached view. The in-memory broker serves a single process; the redis
// broker extends the same contract across processes sharing one store.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}
