// Package events broadcasts identity lifecycle events to in-process
// subscribers. Observers see the current state on subscribe, then
// every later transition until they close the subscription.
package events

import (
	"errors"
	"sync"
	"time"
)

const (
	TypeSignedIn  = "signed_in"
	TypeSignedOut = "signed_out"
)

const DefaultSubscriberBuffer = 16

type Event struct {
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Provider    string    `json:"provider"`
	NewUser     bool      `json:"new_user"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Hub struct {
	mu               sync.RWMutex
	subs             map[uint64]chan Event
	nextID           uint64
	last             *Event
	subscriberBuffer int
	closed           bool
}

type Subscription struct {
	hub  *Hub
	id   uint64
	ch   chan Event
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs:             make(map[uint64]chan Event),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = &event
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close shuts the hub down. Subscriber channels are closed so their
// consumers drain and exit, and later publishes are dropped.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

// Subscribe registers an observer. The returned event pointer is the
// most recent transition, nil when nothing has happened yet.
func (h *Hub) Subscribe() (*Subscription, *Event, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, nil, errors.New("hub_closed")
	}
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	h.subs[id] = ch
	var last *Event
	if h.last != nil {
		copied := *h.last
		last = &copied
	}
	h.mu.Unlock()

	return &Subscription{hub: h, id: id, ch: ch}, last, nil
}

func (h *Hub) unsubscribe(id uint64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

func (s *Subscription) Events() <-chan Event {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.id)
	})
}
