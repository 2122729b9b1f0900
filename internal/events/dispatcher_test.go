package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, updated int
	d.Subscribe(EventGuestCreated, func(_ context.Context, e Event) error {
		if e.GuestID != "g-1" {
			t.Fatalf("unexpected guest id %q", e.GuestID)
		}
		created++
		return nil
	})
	d.Subscribe(EventGuestUpdated, func(context.Context, Event) error {
		updated++
		return nil
	})

	if err := d.Publish(context.Background(), New(EventGuestCreated, "g-1", GuestCreatedPayload{FullName: "Ana"})); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if created != 1 || updated != 0 {
		t.Fatalf("expected only the created handler, got created=%d updated=%d", created, updated)
	}
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	first := errors.New("first")
	calls := 0

	d.Subscribe(EventGuestUpdated, func(context.Context, Event) error {
		calls++
		return first
	})
	d.Subscribe(EventGuestUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), New(EventGuestUpdated, "g-2", GuestUpdatedPayload{}))
	if !errors.Is(err, first) {
		t.Fatalf("expected joined error to wrap handler error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("a failing handler must not stop the rest, got %d calls", calls)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), New(EventGuestCreated, "x", nil)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventGuestCreated, "g-3", nil)
	if e.ID == "" || e.Timestamp.IsZero() || e.Type != EventGuestCreated {
		t.Fatalf("event not stamped: %+v", e)
	}
}
