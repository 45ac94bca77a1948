package bus

import (
	"sync"
	"sync/atomic"

	"github.com/nliven/airsync/internal/logger"
)

// Event is the terminal completion signal of one sync cycle.
// StatusCode is the HTTP status on both paths; it is
// StatusTransportError when no response was received at all.
type Event struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Count      int    `json:"count,omitempty"`
	Err        string `json:"error,omitempty"`
	// Seq orders events published on the same bus: later publishes get
	// larger values. Dispatch is asynchronous, so a subscriber tracking
	// "latest" state must compare Seq before overwriting.
	Seq uint64 `json:"seq,omitempty"`
}

// StatusTransportError is the sentinel status code published when the
// request failed before any HTTP response arrived.
const StatusTransportError = 0

// Handler consumes completion events. Handlers run on the bus dispatch
// goroutine; slow work should be handed off by the handler itself.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed.
type Subscription int

// Bus fans completion events out to every registered subscriber.
// Publish never blocks the caller on subscriber work: delivery happens
// on a dedicated goroutine per published event. Zero subscribers is
// legal. Delivery order across subscribers is unspecified.
type Bus struct {
	mu       sync.RWMutex
	next     Subscription
	handlers map[Subscription]Handler
	seq      atomic.Uint64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: map[Subscription]Handler{}}
}

// Subscribe registers a handler and returns its subscription token.
func (b *Bus) Subscribe(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	sub := b.next
	b.handlers[sub] = h
	return sub
}

// Unsubscribe removes a handler. Unknown tokens are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, sub)
}

// SubscriberCount returns the number of registered handlers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// Publish delivers the event to every handler registered at call time,
// stamping it with the next sequence number. Handlers added or removed
// during dispatch do not affect this event.
func (b *Bus) Publish(e Event) {
	e.Seq = b.seq.Add(1)

	b.mu.RLock()
	snapshot := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	logger.WithComponent("bus").Debugf("publishing event to %d subscribers: success=%v status=%d",
		len(snapshot), e.Success, e.StatusCode)

	go func() {
		for _, h := range snapshot {
			h(e)
		}
	}()
}
