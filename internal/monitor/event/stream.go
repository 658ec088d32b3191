package event

import (
	"sync"

	"github.com/google/uuid"
)

// Stream fans recorded events out to subscribers. Lifecycle is explicit:
// Subscribe returns a handle and delivery stops as soon as Unsubscribe is
// called, so transient consumers (e.g. live-tick channels) cannot leak.
type Stream struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]func(OperationEvent)
}

func NewStream() *Stream {
	return &Stream{
		subscribers: map[uuid.UUID]func(OperationEvent){},
	}
}

type Subscription struct {
	id     uuid.UUID
	stream *Stream
}

func (s *Stream) Subscribe(callback func(OperationEvent)) *Subscription {
	id := uuid.New()
	s.mu.Lock()
	s.subscribers[id] = callback
	s.mu.Unlock()
	return &Subscription{id: id, stream: s}
}

func (s *Subscription) Unsubscribe() {
	s.stream.mu.Lock()
	delete(s.stream.subscribers, s.id)
	s.stream.mu.Unlock()
}

func (s *Stream) publish(ev OperationEvent) {
	s.mu.Lock()
	callbacks := make([]func(OperationEvent), 0, len(s.subscribers))
	for _, callback := range s.subscribers {
		callbacks = append(callbacks, callback)
	}
	s.mu.Unlock()
	// Callbacks run outside the lock so a subscriber may unsubscribe itself.
	for _, callback := range callbacks {
		callback(ev)
	}
}
