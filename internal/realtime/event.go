// Package realtime broadcasts product and order changes to connected WebSocket clients,
// to other API instances through Redis and to the order event stream in Kafka.
package realtime

import (
	"time"

	"dealer-kart/internal/model"

	"github.com/google/uuid"
)

// EventName identifies the kind of change being broadcast.
type EventName string

const (
	EventProductAdded   EventName = "productAdded"
	EventProductUpdated EventName = "productUpdated"
	EventProductDeleted EventName = "productDeleted"
	EventOrderUpdated   EventName = "orderUpdated"
	EventNewOrder       EventName = "newOrder"
)

// IsOrderEvent reports whether the event describes an order.
func (n EventName) IsOrderEvent() bool {
	return n == EventOrderUpdated || n == EventNewOrder
}

// Event is the JSON frame sent to every subscriber.
type Event struct {
	Event     EventName `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`

	// Key is the ID of the record the event is about. It partitions the Kafka stream.
	Key string `json:"-"`
}

// Publisher accepts events for delivery. Publish must not block the caller.
type Publisher interface {
	Publish(evt Event)
}

// ProductEvent builds a product event carrying the full product.
func ProductEvent(name EventName, product *model.Product) Event {
	return Event{
		Event:     name,
		Data:      product,
		Timestamp: time.Now().UTC(),
		Key:       product.ID.String(),
	}
}

// ProductDeleted builds the deletion event, which only carries the product ID.
func ProductDeleted(id uuid.UUID) Event {
	return Event{
		Event:     EventProductDeleted,
		Data:      map[string]string{"id": id.String()},
		Timestamp: time.Now().UTC(),
		Key:       id.String(),
	}
}

// OrderEvent builds an order event carrying the full order.
func OrderEvent(name EventName, order *model.Order) Event {
	return Event{
		Event:     name,
		Data:      order,
		Timestamp: time.Now().UTC(),
		Key:       order.ID.String(),
	}
}

// Fanout delivers each event to every publisher in turn.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(evt Event) {
	for _, p := range f {
		if p != nil {
			p.Publish(evt)
		}
	}
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(Event) {}
