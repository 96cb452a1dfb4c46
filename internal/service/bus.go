package service

import "sync"

// Event actions published on the bus.
const (
	ActionReloaded    = "reloaded"
	ActionFetchFailed = "fetch_failed"
)

// Event announces a dataset change: a source reloaded or a fetch failed.
type Event struct {
	Source string // dataset source name
	Action string // ActionReloaded or ActionFetchFailed
	Count  int    // feature count after a reload
	Error  string // error message for fetch failures
}

// EventBus is a simple fan-out pub/sub for dataset events. The dashboard SSE
// stream subscribes so panels update live on reloads and failures surface
// exactly once per occurrence.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
