// Package services holds the business rules of the platform: registration
// admission, account creation, authentication and event management. Storage
// is reached through the interfaces below so the rules can be exercised
// without a database.
package services

import (
	"context"
	"encoding/json"
	"time"

	"activity_hub/internal/models"
)

// RegistrantKind selects which join table and capacity limit apply.
type RegistrantKind string

const (
	KindParticipant RegistrantKind = models.RoleParticipant
	KindVolunteer   RegistrantKind = models.RoleVolunteer
)

func (k RegistrantKind) Valid() bool {
	return k == KindParticipant || k == KindVolunteer
}

// Limit returns the event's capacity for this kind of registrant.
func (k RegistrantKind) Limit(e *models.Event) int {
	if k == KindVolunteer {
		return e.MaxVolunteers
	}
	return e.MaxParticipants
}

// Registration is one join row, regardless of kind.
type Registration struct {
	Kind         RegistrantKind
	RegistrantID uint
	EventID      uint
	SignedAt     time.Time
}

// MarshalJSON names the registrant column after the kind, matching the
// participant_events / volunteer_events rows.
func (r Registration) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		string(r.Kind) + "_id": r.RegistrantID,
		"event_id":             r.EventID,
		"signed_at":            r.SignedAt,
	})
}

// RegistrationFilter narrows a listing. Zero values match everything.
type RegistrationFilter struct {
	RegistrantID uint
	EventID      uint
}

// AdmissionTx is the view of storage available while an admission holds the
// event lock. Every call happens inside the same transaction.
type AdmissionTx interface {
	// LockEvent loads the event and blocks other admissions for it until the
	// transaction ends.
	LockEvent(ctx context.Context, eventID uint) (*models.Event, error)
	RegistrantExists(ctx context.Context, kind RegistrantKind, registrantID uint) (bool, error)
	CountRegistrations(ctx context.Context, kind RegistrantKind, eventID uint) (int64, error)
	IsRegistered(ctx context.Context, kind RegistrantKind, registrantID, eventID uint) (bool, error)
	InsertRegistration(ctx context.Context, reg Registration) error
}

type RegistrationStore interface {
	// Admission runs fn in one transaction. A non-nil return rolls it back.
	Admission(ctx context.Context, fn func(tx AdmissionTx) error) error
	// DeleteRegistration reports whether a row was removed.
	DeleteRegistration(ctx context.Context, kind RegistrantKind, registrantID, eventID uint) (bool, error)
	ListRegistrations(ctx context.Context, kind RegistrantKind, filter RegistrationFilter) ([]Registration, error)
}

// AccountStore persists users and their role rows. Create methods insert the
// User and the role row atomically and fill in both IDs.
type AccountStore interface {
	CreateParticipant(ctx context.Context, user *models.User, p *models.Participant) error
	CreateVolunteer(ctx context.Context, user *models.User, v *models.Volunteer) error
	CreateStaff(ctx context.Context, user *models.User, s *models.Staff) error

	// EmailTaken checks both the volunteer and staff tables.
	EmailTaken(ctx context.Context, email string) (bool, error)
	FindParticipantByPhone(ctx context.Context, phone string) (*models.Participant, error)
	FindVolunteerByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error)

	ListParticipants(ctx context.Context) ([]models.Participant, error)
	GetParticipant(ctx context.Context, id uint) (*models.Participant, error)
	UpdateParticipant(ctx context.Context, p *models.Participant) error
	DeleteParticipant(ctx context.Context, id uint) error

	ListVolunteers(ctx context.Context) ([]models.Volunteer, error)
	GetVolunteer(ctx context.Context, id uint) (*models.Volunteer, error)
	UpdateVolunteer(ctx context.Context, v *models.Volunteer) error
	DeleteVolunteer(ctx context.Context, id uint) error

	ListStaff(ctx context.Context) ([]models.Staff, error)
	GetStaff(ctx context.Context, id uint) (*models.Staff, error)
	UpdateStaff(ctx context.Context, s *models.Staff) error
	DeleteStaff(ctx context.Context, id uint) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteAccount removes the role row and then the user, atomically.
	DeleteAccount(ctx context.Context, userID uint) error
}

type EventStore interface {
	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	// ListEvents orders by scheduled time; a non-nil from excludes earlier events.
	ListEvents(ctx context.Context, from *time.Time) ([]models.Event, error)
	// UpdateEvent locks the event row, counts its registrations and passes both
	// to fn. The row is saved only if fn returns nil, before the lock is released.
	UpdateEvent(ctx context.Context, id uint, fn func(e *models.Event, participants, volunteers int64) error) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	CountRegistrations(ctx context.Context, eventID uint) (participants, volunteers int64, err error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID uint, role string) (string, error)
}
