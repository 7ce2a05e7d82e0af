// Package messaging publishes registration changes for downstream consumers
// such as reminder and roster services.
package messaging

import (
	"context"
	"time"
)

const (
	TypeRegistered   = "registered"
	TypeUnregistered = "unregistered"
)

// RegistrationEvent is published after a join row is created or removed.
type RegistrationEvent struct {
	Type         string    `json:"type"`
	Kind         string    `json:"kind"` // "participant" or "volunteer"
	RegistrantID uint      `json:"registrant_id"`
	EventID      uint      `json:"event_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// RoutingKey is "<kind>.<type>", e.g. "volunteer.registered".
func (e RegistrationEvent) RoutingKey() string {
	return e.Kind + "." + e.Type
}

type Publisher interface {
	PublishRegistration(ctx context.Context, evt RegistrationEvent) error
	Close() error
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRegistration(context.Context, RegistrationEvent) error { return nil }
func (NopPublisher) Close() error                                                { return nil }
