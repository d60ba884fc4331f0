// Package notify fans out collection-change events to live subscribers,
// typically the SPA's websocket connections.
package notify

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

// Event announces that a collection's backing file changed.
type Event struct {
	Type       string    `json:"type"`
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// Hub delivers published events to every current subscriber. Delivery never
// blocks the publisher: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscription is one receiver registered with a Hub.
type Subscription struct {
	hub  *Hub
	ch   chan Event
	once sync.Once
}

// Subscribe registers a new receiver. Callers must Close it when done.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{hub: h, ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Events returns the channel events arrive on. It is closed by Close.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}

// Publish sends ev to all subscribers.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
