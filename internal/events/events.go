package events

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ProductCreated   Type = "product_created"
	ProductUpdated   Type = "product_updated"
	ProductDeleted   Type = "product_deleted"
	ProductsCleared  Type = "products_cleared"
	ProductPurchased Type = "product_purchased"
	CartItemAdded    Type = "cart_item_added"
	CartItemRemoved  Type = "cart_item_removed"
	CartCompleted    Type = "cart_completed"
)

// Event is the envelope written to the bus. Key is the id of the product or
// cart the event is about, so all events of one aggregate share a partition.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

func New(typ Type, key int64, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        strconv.FormatInt(key, 10),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
