package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"activity_hub/internal/apperr"
	"activity_hub/internal/geo"
	"activity_hub/internal/models"
)

// EventInput carries create and update fields. On update nil fields are left
// unchanged; a Venue of JSON null clears the stored point.
type EventInput struct {
	Name            *string
	Description     *string
	Accessible      *bool
	ScheduledAt     *time.Time
	Location        *string
	Notes           *string
	MaxParticipants *int
	MaxVolunteers   *int
	Venue           json.RawMessage
}

// EventView is an event as returned to clients.
type EventView struct {
	models.Event
	Venue            json.RawMessage `json:"venue,omitempty"`
	ParticipantCount *int64          `json:"participant_count,omitempty"`
	VolunteerCount   *int64          `json:"volunteer_count,omitempty"`
}

type EventService struct {
	store EventStore
}

func NewEventService(store EventStore) *EventService {
	return &EventService{store: store}
}

// Create stores a new event owned by the staff user creatorID.
func (s *EventService) Create(ctx context.Context, creatorID uint, in EventInput) (*EventView, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.ScheduledAt == nil || in.ScheduledAt.IsZero() {
		return nil, apperr.Validation("scheduled_at is required")
	}

	e := &models.Event{CreatedBy: &creatorID}
	if err := applyEventInput(e, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, apperr.Storage(err, "could not create event")
	}
	return toEventView(e), nil
}

// Get returns the event together with its live registration counts.
func (s *EventService) Get(ctx context.Context, id uint) (*EventView, error) {
	e, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err, "could not load event")
	}
	pc, vc, err := s.store.CountRegistrations(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err, "could not count registrations")
	}
	v := toEventView(e)
	v.ParticipantCount = &pc
	v.VolunteerCount = &vc
	return v, nil
}

func (s *EventService) List(ctx context.Context, from *time.Time) ([]EventView, error) {
	events, err := s.store.ListEvents(ctx, from)
	if err != nil {
		return nil, apperr.Storage(err, "could not list events")
	}
	out := make([]EventView, 0, len(events))
	for i := range events {
		out = append(out, *toEventView(&events[i]))
	}
	return out, nil
}

// Update applies the non-nil fields. Limits cannot drop below the number of
// registrations already admitted; the check and the save happen under the
// same event lock that admission takes.
func (s *EventService) Update(ctx context.Context, id uint, in EventInput) (*EventView, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validation("name cannot be empty")
	}
	if in.ScheduledAt != nil && in.ScheduledAt.IsZero() {
		return nil, apperr.Validation("scheduled_at cannot be empty")
	}

	e, err := s.store.UpdateEvent(ctx, id, func(e *models.Event, participants, volunteers int64) error {
		if err := applyEventInput(e, in); err != nil {
			return err
		}
		if int64(e.MaxParticipants) < participants {
			return apperr.Validation("max_participants cannot be below the %d registered participants", participants)
		}
		if int64(e.MaxVolunteers) < volunteers {
			return apperr.Validation("max_volunteers cannot be below the %d registered volunteers", volunteers)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(err, "could not update event")
	}
	return toEventView(e), nil
}

// Delete removes the event; its registrations go with it.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	return apperr.Storage(s.store.DeleteEvent(ctx, id), "could not delete event")
}

func applyEventInput(e *models.Event, in EventInput) error {
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Accessible != nil {
		e.Accessible = *in.Accessible
	}
	if in.ScheduledAt != nil {
		e.ScheduledAt = in.ScheduledAt.UTC()
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.Notes != nil {
		e.Notes = *in.Notes
	}
	if in.MaxParticipants != nil {
		if *in.MaxParticipants < 0 {
			return apperr.Validation("max_participants cannot be negative")
		}
		e.MaxParticipants = *in.MaxParticipants
	}
	if in.MaxVolunteers != nil {
		if *in.MaxVolunteers < 0 {
			return apperr.Validation("max_volunteers cannot be negative")
		}
		e.MaxVolunteers = *in.MaxVolunteers
	}
	if len(in.Venue) > 0 {
		if bytes.Equal(bytes.TrimSpace(in.Venue), []byte("null")) {
			e.Geometry = nil
			return nil
		}
		wkb, err := geo.PointToWKB(string(in.Venue))
		if err != nil {
			return apperr.Validation("invalid venue: %v", err)
		}
		e.Geometry = wkb
	}
	return nil
}

func toEventView(e *models.Event) *EventView {
	v := &EventView{Event: *e}
	if len(e.Geometry) > 0 {
		gj, err := geo.WKBToGeoJSON(e.Geometry)
		if err != nil {
			logrus.WithError(err).WithField("event_id", e.ID).Warn("stored venue is not valid WKB")
		} else {
			v.Venue = json.RawMessage(gj)
		}
	}
	return v
}
