package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activity_hub/internal/apperr"
	"activity_hub/internal/models"
	"activity_hub/internal/services"
)

type joinTable struct {
	table       string // join rows
	column      string // registrant foreign key
	registrants string // registrant rows
}

func (jt joinTable) model() any {
	if jt.table == "volunteer_events" {
		return &models.VolunteerEvent{}
	}
	return &models.ParticipantEvent{}
}

func tableFor(kind services.RegistrantKind) joinTable {
	if kind == services.KindVolunteer {
		return joinTable{table: "volunteer_events", column: "volunteer_id", registrants: "volunteers"}
	}
	return joinTable{table: "participant_events", column: "participant_id", registrants: "participants"}
}

type RegistrationRepository struct {
	db *gorm.DB
}

var _ services.RegistrationStore = (*RegistrationRepository)(nil)

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Admission opens a transaction; LockEvent inside it takes FOR UPDATE on the
// event row, which serialises admissions per event until commit.
func (r *RegistrationRepository) Admission(ctx context.Context, fn func(tx services.AdmissionTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&admissionTx{tx: tx})
	})
}

func (r *RegistrationRepository) DeleteRegistration(ctx context.Context, kind services.RegistrantKind, registrantID, eventID uint) (bool, error) {
	jt := tableFor(kind)
	res := r.db.WithContext(ctx).
		Where(jt.column+" = ? AND event_id = ?", registrantID, eventID).
		Delete(jt.model())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type registrationRow struct {
	RegistrantID uint
	EventID      uint
	SignedAt     time.Time
}

func (r *RegistrationRepository) ListRegistrations(ctx context.Context, kind services.RegistrantKind, filter services.RegistrationFilter) ([]services.Registration, error) {
	jt := tableFor(kind)
	q := r.db.WithContext(ctx).
		Table(jt.table).
		Select(jt.column + " AS registrant_id, event_id, signed_at")
	if filter.RegistrantID != 0 {
		q = q.Where(jt.column+" = ?", filter.RegistrantID)
	}
	if filter.EventID != 0 {
		q = q.Where("event_id = ?", filter.EventID)
	}

	var rows []registrationRow
	if err := q.Order("event_id, " + jt.column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]services.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, services.Registration{
			Kind:         kind,
			RegistrantID: row.RegistrantID,
			EventID:      row.EventID,
			SignedAt:     row.SignedAt,
		})
	}
	return out, nil
}

type admissionTx struct {
	tx *gorm.DB
}

func (a *admissionTx) LockEvent(ctx context.Context, eventID uint) (*models.Event, error) {
	var e models.Event
	err := a.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, eventID).Error
	if err != nil {
		return nil, notFound(err, "event")
	}
	return &e, nil
}

func (a *admissionTx) RegistrantExists(ctx context.Context, kind services.RegistrantKind, registrantID uint) (bool, error) {
	var n int64
	err := a.tx.WithContext(ctx).
		Table(tableFor(kind).registrants).
		Where("id = ?", registrantID).
		Count(&n).Error
	return n > 0, err
}

func (a *admissionTx) CountRegistrations(ctx context.Context, kind services.RegistrantKind, eventID uint) (int64, error) {
	var n int64
	err := a.tx.WithContext(ctx).
		Table(tableFor(kind).table).
		Where("event_id = ?", eventID).
		Count(&n).Error
	return n, err
}

func (a *admissionTx) IsRegistered(ctx context.Context, kind services.RegistrantKind, registrantID, eventID uint) (bool, error) {
	jt := tableFor(kind)
	var n int64
	err := a.tx.WithContext(ctx).
		Table(jt.table).
		Where(jt.column+" = ? AND event_id = ?", registrantID, eventID).
		Count(&n).Error
	return n > 0, err
}

func (a *admissionTx) InsertRegistration(ctx context.Context, reg services.Registration) error {
	var row any
	switch reg.Kind {
	case services.KindParticipant:
		row = &models.ParticipantEvent{ParticipantID: reg.RegistrantID, EventID: reg.EventID, SignedAt: reg.SignedAt}
	case services.KindVolunteer:
		row = &models.VolunteerEvent{VolunteerID: reg.RegistrantID, EventID: reg.EventID, SignedAt: reg.SignedAt}
	default:
		return fmt.Errorf("unknown registrant kind %q", reg.Kind)
	}

	err := a.tx.WithContext(ctx).Omit(clause.Associations).Create(row).Error
	if isUniqueViolation(err) {
		return apperr.New(apperr.ErrAlreadyRegistered, "%s already registered for this event", reg.Kind)
	}
	return err
}
