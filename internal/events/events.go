package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSessionEstablished   = "session_established"
	EventSessionCleared       = "session_cleared"
	EventReservationSubmitted = "reservation_submitted"
	EventListingApproved      = "listing_approved"
	EventListingRejected      = "listing_rejected"
)

// ReservationEventPayload is the reservation snapshot for event consumers.
type ReservationEventPayload struct {
	ReservationID string    `json:"reservation_id"`
	ListingID     string    `json:"listing_id"`
	ListingName   string    `json:"listing_name"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Guests        int       `json:"guests"`
	TotalCost     float64   `json:"total_cost"`
	CreatedBy     string    `json:"created_by"`
}

// ListingEventPayload describes a moderation decision.
type ListingEventPayload struct {
	ListingID string `json:"listing_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	AdminID   string `json:"admin_id"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
