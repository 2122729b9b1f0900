package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/spec-kit/guest-list/internal/domain"
)

var tracer = otel.Tracer("github.com/spec-kit/guest-list/internal/repository")

type tracedGuestRepository struct {
	next    GuestRepository
	backend attribute.KeyValue
}

// WithTracing wraps next so every store call runs inside a span.
func WithTracing(next GuestRepository, backend string) GuestRepository {
	return &tracedGuestRepository{next: next, backend: attribute.String("guest_store.backend", backend)}
}

func (t *tracedGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	ctx, span := tracer.Start(ctx, "GuestRepository.Create", trace.WithAttributes(t.backend))
	defer span.End()

	err := t.next.Create(ctx, guest)
	if err == nil {
		span.SetAttributes(attribute.String("guest.id", guest.ID))
	}
	return record(span, err)
}

func (t *tracedGuestRepository) Update(ctx context.Context, id string, patch domain.GuestPatch) error {
	ctx, span := tracer.Start(ctx, "GuestRepository.Update", trace.WithAttributes(t.backend, attribute.String("guest.id", id)))
	defer span.End()

	return record(span, t.next.Update(ctx, id, patch))
}

func (t *tracedGuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	ctx, span := tracer.Start(ctx, "GuestRepository.List", trace.WithAttributes(t.backend))
	defer span.End()

	guests, err := t.next.List(ctx)
	span.SetAttributes(attribute.Int("guest.count", len(guests)))
	return guests, record(span, err)
}

func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
