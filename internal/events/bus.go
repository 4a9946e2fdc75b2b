package events

import (
	"sync"

	"github.com/google/uuid"
)

// Handler consumes a single event. Handlers run synchronously on the
// publishing goroutine, in registration order.
type Handler func(Event)

// Bus routes events to registered handlers. Dispatch is synchronous and
// in-order; the mutex only guards the subscription table so that server
// goroutines can register and dispose handlers while the simulation runs.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]*Subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]*Subscription)}
}

// Subscribe registers a handler for one event type and returns a disposable
// subscription handle.
func (b *Bus) Subscribe(t Type, h Handler) *Subscription {
	sub := &Subscription{id: uuid.NewString(), bus: b, typ: t, handler: h}
	b.mu.Lock()
	b.subs[t] = append(b.subs[t], sub)
	b.mu.Unlock()
	return sub
}

// Publish delivers the event to every live handler registered for its type.
// Handlers may publish further events re-entrantly.
func (b *Bus) Publish(ev Event) {
	if ev.Type == "" {
		return
	}
	b.mu.RLock()
	handlers := make([]*Subscription, len(b.subs[ev.Type]))
	copy(handlers, b.subs[ev.Type])
	b.mu.RUnlock()

	for _, sub := range handlers {
		if sub.closed() {
			continue
		}
		if sub.handler != nil {
			sub.handler(ev)
		}
	}
}

// HandlerCount reports the number of live handlers for a type.
func (b *Bus) HandlerCount(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	count := 0
	for _, sub := range b.subs[t] {
		if !sub.closed() {
			count++
		}
	}
	return count
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.typ]
	for i, candidate := range list {
		if candidate.id == sub.id {
			b.subs[sub.typ] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Subscription is the handle returned by Subscribe. Closing it detaches the
// handler; closing twice is a no-op.
type Subscription struct {
	id      string
	bus     *Bus
	typ     Type
	handler Handler

	mu   sync.Mutex
	done bool
}

// ID is the unique identifier assigned at registration.
func (s *Subscription) ID() string {
	return s.id
}

// Type reports the event type the subscription listens for.
func (s *Subscription) Type() Type {
	return s.typ
}

// Close detaches the handler from the bus.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()
	s.bus.remove(s)
}

func (s *Subscription) closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
