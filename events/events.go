// Package events publishes order lifecycle events.
package events

import (
	"context"
	"log"
	"time"

	"go-storefront/models"

	"github.com/google/uuid"
)

// Event types
const (
	OrderCreated   = "order.created"
	OrderPaid      = "order.paid"
	OrderDelivered = "order.delivered"
)

// Event is the message body published for an order transition
type Event struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurredAt"`
	Order      *models.Order `json:"order"`
}

// NewOrderEvent stamps an event for the given order
func NewOrderEvent(eventType string, order *models.Order) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Order:      order,
	}
}

// Publisher sends events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, event Event) error {
	log.Printf("event %s for order %s not published (no broker)", event.Type, event.Order.ID.Hex())
	return nil
}
