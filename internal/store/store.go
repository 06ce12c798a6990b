package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alshifa-clinic/booking-api/pkg/messaging"
	"github.com/alshifa-clinic/booking-api/pkg/metrics"
)

// ChangeTopic is the broker topic the store publishes on after every
// successful write. Consumers re-read the collection they care about; the
// payload is advisory.
const ChangeTopic = "store.changes"

// ChangeEvent describes one committed write.
type ChangeEvent struct {
	Collection string `json:"collection"`
	Version    int64  `json:"version"`
}

// Store is the entity store: typed, versioned access to the JSON collections
// on top of a KV backend. It is the only component that touches raw bytes;
// everything above it works with decoded slices.
type Store struct {
	kv      KV
	broker  messaging.Broker
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func New(kv KV, broker messaging.Broker, logger zerolog.Logger, m *metrics.Metrics) *Store {
	return &Store{kv: kv, broker: broker, logger: logger, metrics: m}
}

// Load decodes the named collection into out (a pointer to a slice) and
// returns the version to hand back to Save. A missing key or malformed value
// decodes as the empty collection rather than an error.
func (s *Store) Load(ctx context.Context, collection string, out interface{}) (int64, error) {
	start := time.Now()
	raw, version, err := s.kv.Get(ctx, collection)
	s.observe(collection, "load", start)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", collection, err)
	}
	if raw == "" {
		return version, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("stored collection is malformed, treating as empty")
		return version, nil
	}
	return version, nil
}

// Save encodes v and writes it back at the given version. On success a change
// notification is published; a failed publish is logged but does not fail the
// write, the data is already durable.
func (s *Store) Save(ctx context.Context, collection string, v interface{}, version int64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	start := time.Now()
	newVersion, err := s.kv.Put(ctx, collection, string(data), version)
	s.observe(collection, "save", start)
	if err != nil {
		if err == ErrVersionConflict && s.metrics != nil {
			s.metrics.StoreConflicts.Inc()
		}
		return err
	}

	if s.broker != nil {
		payload, _ := json.Marshal(ChangeEvent{Collection: collection, Version: newVersion})
		if err := s.broker.Publish(ctx, ChangeTopic, payload); err != nil {
			s.logger.Warn().Err(err).Str("collection", collection).Msg("failed to publish change notification")
		}
	}
	return nil
}

// Update runs a read-modify-write loop: load, mutate, save, retrying on
// version conflicts. mutate receives the freshly loaded state each attempt
// and must be idempotent.
func (s *Store) Update(ctx context.Context, collection string, load func() interface{}, mutate func(loaded interface{}) (interface{}, error)) error {
	const maxAttempts = 5
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		state := load()
		version, err := s.Load(ctx, collection, state)
		if err != nil {
			return err
		}
		next, err := mutate(state)
		if err != nil {
			return err
		}
		if err := s.Save(ctx, collection, next, version); err != nil {
			if err == ErrVersionConflict {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("update %s: retries exhausted: %w", collection, lastErr)
}

// Subscribe yields decoded change events until ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if s.broker == nil {
		ch := make(chan ChangeEvent)
		close(ch)
		return ch, nil
	}
	raw, err := s.broker.Subscribe(ctx, ChangeTopic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to store changes: %w", err)
	}

	out := make(chan ChangeEvent, 16)
	go func() {
		defer close(out)
		for payload := range raw {
			var ev ChangeEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				s.logger.Warn().Err(err).Msg("dropping malformed change notification")
				continue
			}
			out <- ev
		}
	}()
	return out, nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) observe(collection, op string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreOperations.WithLabelValues(collection, op).Inc()
	s.metrics.StoreLatency.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}
