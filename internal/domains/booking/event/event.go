package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"fieldbook/config"
	"fieldbook/infras/kafka"
	"fieldbook/infras/otel"
	"fieldbook/internal/domains/booking/model/dto"
	"fieldbook/shared/constant"
	"fieldbook/shared/timezone"
	"fmt"
	"time"
)

type Type string

const (
	TypeCreated   Type = "booking.created"
	TypeConverted Type = "booking.converted"
	TypeUpdated   Type = "booking.updated"
	TypeDeleted   Type = "booking.deleted"
)

// Event is the lifecycle notice sent to the notification collaborator.
type Event struct {
	Type       Type                  `json:"type"`
	OccurredAt time.Time             `json:"occurred_at"`
	Actor      string                `json:"actor"`
	Rule       string                `json:"rule,omitempty"`
	ReplacedID string                `json:"replaced_id,omitempty"`
	Bookings   []dto.BookingResponse `json:"bookings"`
}

func New(eventType Type, actor string, bookings []dto.BookingResponse) Event {
	return Event{
		Type:       eventType,
		OccurredAt: timezone.Now(),
		Actor:      actor,
		Bookings:   bookings,
	}
}

// Key groups an event on the partition of the resource it touches, falling back to the
// first booking id when no resource is assigned.
func (e Event) Key() string {
	for _, booking := range e.Bookings {
		if booking.ResourceID != nil && *booking.ResourceID != constant.Empty {
			return *booking.ResourceID
		}
	}

	if len(e.Bookings) > 0 {
		return e.Bookings[0].ID
	}

	return string(e.Type)
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func NewKafkaPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topic.Booking,
		otel:   otel,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, evt Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"event.type":  string(evt.Type),
		"event.count": len(evt.Bookings),
	})

	if err = p.client.SendMessages(ctx, p.topic, kafka.Message{Key: evt.Key(), Value: evt}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	return nil
}
