package session

import "sync"

// Broadcaster is a minimal auth-change event source. Provider
// implementations embed one to fan events out to subscribers; each
// subscription returns a single unsubscribe handle so listeners can be
// released when the owning view is torn down.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Event)
}

// NewBroadcaster creates an empty broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[int]func(Event))}
}

// Subscribe registers a listener and returns its unsubscribe handle.
// Unsubscribing twice is a no-op.
func (b *Broadcaster) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Publish delivers an event to all current subscribers. Delivery is
// synchronous: listener side effects (token store writes) are applied before
// Publish returns, so dependent calls in the same tick observe them.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
