package services

import "sync"

// Subscription delivers values over C until Cancel is called.
type Subscription[T any] struct {
	C <-chan T

	cancel func()
	once   sync.Once
}

// Cancel stops delivery and closes C. Values still buffered are discarded.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// Broadcaster fans values out to subscribers without ever blocking the
// publisher. A subscriber that falls behind loses its oldest buffered value.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
	buffer int
}

func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster[T]{subs: make(map[uint64]chan T), buffer: buffer}
}

// Subscribe registers a subscriber. When initial is non-nil it is queued first.
func (b *Broadcaster[T]) Subscribe(initial *T) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan T, b.buffer)
	if initial != nil {
		ch <- *initial
	}
	b.subs[id] = ch

	return &Subscription[T]{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; !ok {
				return
			}
			delete(b.subs, id)
			for len(ch) > 0 {
				<-ch
			}
			close(ch)
		},
	}
}

func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		offer(ch, v)
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close cancels every subscriber.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// offer sends v, dropping the oldest queued value when the channel is full.
// Callers hold b.mu, so nothing else sends on ch concurrently.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
