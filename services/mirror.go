package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	minWatchBackoff = time.Second
	maxWatchBackoff = 30 * time.Second
)

// Snapshot is a complete, decoded view of one collection.
type Snapshot[T any] struct {
	Collection string    `json:"collection"`
	Items      []T       `json:"items"`
	ReadTime   time.Time `json:"readTime"`
	// Stale is set when the watch failed after this snapshot was taken.
	Stale    bool   `json:"stale"`
	Err      string `json:"error,omitempty"`
	Rejected int    `json:"rejected"`
}

// Mirror keeps the latest snapshot of a collection in memory and fans every
// change out to subscribers.
type Mirror[T any] struct {
	collection string
	decode     func(Document) (T, error)
	logger     *slog.Logger

	mu      sync.RWMutex
	current *Snapshot[T]

	hub *Broadcaster[Snapshot[T]]

	backoffMin time.Duration
	backoffMax time.Duration
}

func NewMirror[T any](collection string, decode func(Document) (T, error), logger *slog.Logger) *Mirror[T] {
	return &Mirror[T]{
		collection: collection,
		decode:     decode,
		logger:     logger.With("collection", collection),
		hub:        NewBroadcaster[Snapshot[T]](1),
		backoffMin: minWatchBackoff,
		backoffMax: maxWatchBackoff,
	}
}

func (m *Mirror[T]) Collection() string { return m.collection }

// Current returns the latest snapshot, and false until the first one arrives.
func (m *Mirror[T]) Current() (Snapshot[T], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Snapshot[T]{Collection: m.collection}, false
	}
	return *m.current, true
}

// Items returns the latest items, or nil before the first snapshot.
func (m *Mirror[T]) Items() []T {
	snap, _ := m.Current()
	return snap.Items
}

// Subscribe delivers the current snapshot right away, then every replacement.
func (m *Mirror[T]) Subscribe() *Subscription[Snapshot[T]] {
	// Holding the read lock keeps apply from publishing between the read and
	// the registration, so no snapshot is missed.
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return m.hub.Subscribe(nil)
	}
	snap := *m.current
	return m.hub.Subscribe(&snap)
}

// Run consumes the store's snapshot stream until ctx ends, reconnecting
// with capped exponential backoff after failures.
func (m *Mirror[T]) Run(ctx context.Context, store DocumentStore) {
	defer m.hub.Close()

	backoff := m.backoffMin
	for {
		err := m.watch(ctx, store, func() { backoff = m.backoffMin })
		if ctx.Err() != nil {
			return
		}
		m.markStale(err)
		m.logger.Warn("snapshot watch failed, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > m.backoffMax {
			backoff = m.backoffMax
		}
	}
}

func (m *Mirror[T]) watch(ctx context.Context, store DocumentStore, onSnapshot func()) error {
	it := store.Watch(ctx, m.collection)
	defer it.Stop()

	for {
		raw, err := it.Next()
		if err != nil {
			return err
		}
		m.apply(raw)
		onSnapshot()
	}
}

func (m *Mirror[T]) apply(raw *RawSnapshot) {
	snap := Snapshot[T]{
		Collection: m.collection,
		Items:      make([]T, 0, len(raw.Documents)),
		ReadTime:   raw.ReadTime,
	}
	for _, doc := range raw.Documents {
		item, err := m.decode(doc)
		if err != nil {
			snap.Rejected++
			m.logger.Error("rejected malformed document", "id", doc.ID, "error", err)
			continue
		}
		snap.Items = append(snap.Items, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &snap
	m.hub.Publish(snap)
}

func (m *Mirror[T]) markStale(err error) {
	if err == nil {
		err = errors.New("snapshot stream ended")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot[T]{Collection: m.collection}
	if m.current != nil {
		snap = *m.current
	}
	snap.Stale = true
	snap.Err = err.Error()
	m.current = &snap
	m.hub.Publish(snap)
}
