package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGuestCreated EventType = "guest_created"
	EventGuestUpdated EventType = "guest_updated"
)

// Event represents a guest mutation that reached the store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuestID   string      `json:"guest_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GuestCreatedPayload payload.
type GuestCreatedPayload struct {
	FullName  string `json:"full_name"`
	Confirmed bool   `json:"confirmed"`
}

// GuestUpdatedPayload carries only the fields that were written.
type GuestUpdatedPayload struct {
	FullName  *string `json:"full_name,omitempty"`
	Confirmed *bool   `json:"confirmed,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, guestID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		GuestID:   guestID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
