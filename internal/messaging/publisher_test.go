package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationEvent_RoutingKey(t *testing.T) {
	evt := RegistrationEvent{Type: TypeRegistered, Kind: "volunteer"}
	assert.Equal(t, "volunteer.registered", evt.RoutingKey())
}

func TestRegistrationEvent_JSON(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	evt := RegistrationEvent{Type: TypeUnregistered, Kind: "participant", RegistrantID: 4, EventID: 9, OccurredAt: at}

	b, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"unregistered","kind":"participant","registrant_id":4,"event_id":9,"occurred_at":"2026-05-01T10:00:00Z"}`,
		string(b))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishRegistration(context.Background(), RegistrationEvent{}))
	assert.NoError(t, p.Close())
}
