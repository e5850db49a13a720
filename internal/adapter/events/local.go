// internal/adapter/events/local.go

package events

import (
	"errors"
	"sync"
)

// ErrClosed is returned when using a closed bus
var ErrClosed = errors.New("events: bus closed")

// LocalBus is an in-process Bus. Handlers run synchronously on the
// publishing goroutine.
type LocalBus struct {
	mu     sync.RWMutex
	subs   map[uint64]*localSub
	nextID uint64
	closed bool
}

type localSub struct {
	bus     *LocalBus
	id      uint64
	pattern string
	handler Handler
}

// NewLocalBus creates an in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[uint64]*localSub)}
}

// Publish delivers data to every matching subscriber
func (b *LocalBus) Publish(subject string, data []byte) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	var handlers []Handler
	for _, s := range b.subs {
		if matchSubject(s.pattern, subject) {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(subject, data)
	}
	return nil
}

// Subscribe registers handler for subject
func (b *LocalBus) Subscribe(subject string, handler Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	b.nextID++
	s := &localSub{bus: b, id: b.nextID, pattern: subject, handler: handler}
	b.subs[s.id] = s
	return s, nil
}

// Close drops all subscriptions
func (b *LocalBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[uint64]*localSub)
}

func (s *localSub) Unsubscribe() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs, s.id)
	return nil
}
