package memory

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Broker is an in-process fan-out broker. Publishes never block: a subscriber
// that falls behind loses notifications, which is acceptable because every
// consumer re-reads the store on notification rather than trusting payloads.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string][]chan []byte
	closed bool
}

func New() *Broker {
	return &Broker{subs: make(map[string][]chan []byte)}
}

func (b *Broker) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, c := range subs {
			if c == ch {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subs = make(map[string][]chan []byte)
	return nil
}
