package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/guest-list/internal/events"
)

// EventPublisher forwards serialized events outside the process.
type EventPublisher interface {
	PublishEvent(ctx context.Context, channel string, payload []byte) error
}

// EventRelay logs guest events and forwards them to a publisher when one is configured.
type EventRelay struct {
	dispatcher events.Dispatcher
	publisher  EventPublisher
	channel    string
	logger     *zap.Logger
}

// NewEventRelay creates the relay. publisher may be nil.
func NewEventRelay(dispatcher events.Dispatcher, publisher EventPublisher, channel string, logger *zap.Logger) *EventRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRelay{
		dispatcher: dispatcher,
		publisher:  publisher,
		channel:    channel,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (r *EventRelay) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventGuestCreated, r.handle)
	r.dispatcher.Subscribe(events.EventGuestUpdated, r.handle)
}

func (r *EventRelay) handle(ctx context.Context, event events.Event) error {
	r.logger.Info(string(event.Type), zap.String("guest_id", event.GuestID), zap.Any("payload", event.Payload))
	if r.publisher == nil || r.channel == "" {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := r.publisher.PublishEvent(ctx, r.channel, payload); err != nil {
		r.logger.Warn("publish guest event failed",
			zap.String("channel", r.channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
