package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activity_hub/internal/models"
	"activity_hub/internal/services"
)

type EventRepository struct {
	db *gorm.DB
}

var _ services.EventStore = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateEvent(ctx context.Context, e *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *EventRepository) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, notFound(err, "event")
	}
	return &e, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, from *time.Time) ([]models.Event, error) {
	q := r.db.WithContext(ctx).Order("scheduled_at, id")
	if from != nil {
		q = q.Where("scheduled_at >= ?", *from)
	}
	var events []models.Event
	err := q.Find(&events).Error
	return events, err
}

// UpdateEvent takes the same FOR UPDATE lock as admission, so a limit change
// and an admission to the same event never interleave.
func (r *EventRepository) UpdateEvent(ctx context.Context, id uint, fn func(e *models.Event, participants, volunteers int64) error) (*models.Event, error) {
	var e models.Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error; err != nil {
			return notFound(err, "event")
		}
		participants, volunteers, err := countRegistrations(tx, id)
		if err != nil {
			return err
		}
		if err := fn(&e, participants, volunteers); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&e).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvent relies on ON DELETE CASCADE to drop the join rows.
func (r *EventRepository) DeleteEvent(ctx context.Context, id uint) error {
	return deleteByID[models.Event](ctx, r.db, "event", id)
}

func (r *EventRepository) CountRegistrations(ctx context.Context, eventID uint) (int64, int64, error) {
	return countRegistrations(r.db.WithContext(ctx), eventID)
}

func countRegistrations(db *gorm.DB, eventID uint) (int64, int64, error) {
	var participants, volunteers int64
	if err := db.Model(&models.ParticipantEvent{}).Where("event_id = ?", eventID).Count(&participants).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.VolunteerEvent{}).Where("event_id = ?", eventID).Count(&volunteers).Error; err != nil {
		return 0, 0, err
	}
	return participants, volunteers, nil
}
