package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"activity_hub/internal/apperr"
	"activity_hub/internal/messaging"
	"activity_hub/internal/metrics"
)

// RegistrationService admits registrants to events and removes them again.
type RegistrationService struct {
	store     RegistrationStore
	publisher messaging.Publisher
	now       func() time.Time
}

func NewRegistrationService(store RegistrationStore, publisher messaging.Publisher) *RegistrationService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &RegistrationService{store: store, publisher: publisher, now: time.Now}
}

// Admit registers the registrant for the event. The capacity and duplicate
// checks run under the event lock, so concurrent admissions to one event are
// decided one at a time.
func (s *RegistrationService) Admit(ctx context.Context, kind RegistrantKind, registrantID, eventID uint) (*Registration, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown registrant kind %q", kind)
	}
	if registrantID == 0 || eventID == 0 {
		return nil, apperr.Validation("%s_id and event_id are required", kind)
	}

	reg := Registration{Kind: kind, RegistrantID: registrantID, EventID: eventID}
	err := s.store.Admission(ctx, func(tx AdmissionTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}

		exists, err := tx.RegistrantExists(ctx, kind, registrantID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("%s not found", kind)
		}

		count, err := tx.CountRegistrations(ctx, kind, eventID)
		if err != nil {
			return err
		}
		if count >= int64(kind.Limit(event)) {
			return apperr.New(apperr.ErrCapacityExceeded, "event has reached its %s limit", kind)
		}

		registered, err := tx.IsRegistered(ctx, kind, registrantID, eventID)
		if err != nil {
			return err
		}
		if registered {
			return apperr.New(apperr.ErrAlreadyRegistered, "%s already registered for this event", kind)
		}

		reg.SignedAt = s.now().UTC()
		return tx.InsertRegistration(ctx, reg)
	})
	if err != nil {
		metrics.RecordAdmission(string(kind), admissionOutcome(err))
		return nil, apperr.Storage(err, "could not register for event")
	}

	metrics.RecordAdmission(string(kind), "admitted")
	s.publish(ctx, messaging.TypeRegistered, reg)
	return &reg, nil
}

// Unregister removes the join row. Removing a pair that was never registered
// succeeds.
func (s *RegistrationService) Unregister(ctx context.Context, kind RegistrantKind, registrantID, eventID uint) error {
	if !kind.Valid() {
		return apperr.Validation("unknown registrant kind %q", kind)
	}

	removed, err := s.store.DeleteRegistration(ctx, kind, registrantID, eventID)
	if err != nil {
		return apperr.Storage(err, "could not unregister from event")
	}
	if removed {
		s.publish(ctx, messaging.TypeUnregistered, Registration{
			Kind: kind, RegistrantID: registrantID, EventID: eventID, SignedAt: s.now().UTC(),
		})
	}
	return nil
}

func (s *RegistrationService) List(ctx context.Context, kind RegistrantKind, filter RegistrationFilter) ([]Registration, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown registrant kind %q", kind)
	}
	regs, err := s.store.ListRegistrations(ctx, kind, filter)
	if err != nil {
		return nil, apperr.Storage(err, "could not list registrations")
	}
	return regs, nil
}

// publish is best effort: the registration is already committed.
func (s *RegistrationService) publish(ctx context.Context, typ string, reg Registration) {
	evt := messaging.RegistrationEvent{
		Type:         typ,
		Kind:         string(reg.Kind),
		RegistrantID: reg.RegistrantID,
		EventID:      reg.EventID,
		OccurredAt:   reg.SignedAt,
	}
	if err := s.publisher.PublishRegistration(ctx, evt); err != nil {
		logrus.WithError(err).WithField("routing_key", evt.RoutingKey()).Warn("failed to publish registration event")
	}
}

func admissionOutcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, apperr.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
