package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spec-kit/guest-list/internal/events"
)

type recordingPublisher struct {
	channel  string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, channel string, payload []byte) error {
	p.channel = channel
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestEventRelayPublishesJSON(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	pub := &recordingPublisher{}
	NewEventRelay(dispatcher, pub, "guests.events", nil).RegisterHandlers()

	event := events.New(events.EventGuestCreated, "g-1", events.GuestCreatedPayload{FullName: "Ana", Confirmed: true})
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if pub.channel != "guests.events" || len(pub.payloads) != 1 {
		t.Fatalf("unexpected publish %q %d", pub.channel, len(pub.payloads))
	}
	var decoded struct {
		Type    string `json:"type"`
		GuestID string `json:"guest_id"`
		Payload struct {
			FullName string `json:"full_name"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(pub.payloads[0], &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != "guest_created" || decoded.GuestID != "g-1" || decoded.Payload.FullName != "Ana" {
		t.Fatalf("unexpected payload %s", pub.payloads[0])
	}
}

func TestEventRelayWithoutPublisher(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	NewEventRelay(dispatcher, nil, "guests.events", nil).RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), events.New(events.EventGuestUpdated, "g-2", nil)); err != nil {
		t.Fatalf("log-only relay should not fail: %v", err)
	}
}

func TestEventRelayReportsPublishFailure(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	boom := errors.New("redis down")
	NewEventRelay(dispatcher, &recordingPublisher{err: boom}, "c", nil).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.New(events.EventGuestUpdated, "g-3", nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected publish error, got %v", err)
	}
}
