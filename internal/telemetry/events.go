package telemetry

import (
	"context"
	"log"
	"time"

	"exchange-campus/internal/observability"
	"exchange-campus/internal/rabbitmq"
)

// Routing keys for domain events on the campus exchange.
const (
	KeyMessageSent    = "messages.sent"
	KeyUserRegistered = "users.registered"
	KeyProductCreated = "products.created"
	KeyReviewCreated  = "reviews.created"
)

// EventEmitter publishes domain events wrapped in a versioned envelope.
type EventEmitter struct {
	publisher   rabbitmq.Publisher
	service     string
	environment string
}

// EventEnvelope is the wire format of every published event.
type EventEnvelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	RequestID     string `json:"request_id"`
	UserID        *int   `json:"user_id,omitempty"`
	Payload       any    `json:"payload"`
}

// NewEventEmitter constructs an EventEmitter.
func NewEventEmitter(publisher rabbitmq.Publisher, service, environment string) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one event. Publish failures are counted and logged but never
// propagate: the originating request has already succeeded.
func (e *EventEmitter) Emit(ctx context.Context, routingKey string, payload any, requestID string, userID *int) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     routingKey,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, routingKey, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("event publish failed key=%s: %v", routingKey, err)
	}
}
