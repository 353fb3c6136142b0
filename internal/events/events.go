// Package events publishes catalog change notifications for downstream consumers.
package events

import (
	"context"
	"time"
)

// Kind names the change that happened.
type Kind string

const (
	RestaurantCreated Kind = "restaurant_created"
	RestaurantUpdated Kind = "restaurant_updated"
	RestaurantDeleted Kind = "restaurant_deleted"
	MenuChanged       Kind = "menu_changed"
	ReviewCreated     Kind = "review_created"
	ReviewDeleted     Kind = "review_deleted"
	CollectionPut     Kind = "collection_put"
	CollectionDeleted Kind = "collection_deleted"
)

// Event carries ids only; consumers read the current record from the API.
type Event struct {
	Kind         Kind      `json:"kind"`
	RestaurantID string    `json:"restaurantId,omitempty"`
	Key          string    `json:"key,omitempty"`
	Slug         string    `json:"slug,omitempty"`
	Time         time.Time `json:"time"`
}

// PartitionKey groups events of one restaurant or collection.
func (e Event) PartitionKey() string {
	if e.RestaurantID != "" {
		return e.RestaurantID
	}
	return e.Slug
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
