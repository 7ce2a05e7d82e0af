package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activity_hub/internal/apperr"
	"activity_hub/internal/models"
	"activity_hub/internal/services"
)

type AccountRepository struct {
	db *gorm.DB
}

var _ services.AccountStore = (*AccountRepository)(nil)

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// createWithUser inserts the user and then the role row in one transaction.
func (r *AccountRepository) createWithUser(ctx context.Context, user *models.User, role any, setUserID func(uint), conflictMsg string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		setUserID(user.ID)
		if err := tx.Omit(clause.Associations).Create(role).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("%s", conflictMsg)
			}
			return err
		}
		return nil
	})
}

func (r *AccountRepository) CreateParticipant(ctx context.Context, user *models.User, p *models.Participant) error {
	return r.createWithUser(ctx, user, p, func(id uint) { p.UserID = id }, "phone number already registered")
}

func (r *AccountRepository) CreateVolunteer(ctx context.Context, user *models.User, v *models.Volunteer) error {
	return r.createWithUser(ctx, user, v, func(id uint) { v.UserID = id }, "email already in use")
}

func (r *AccountRepository) CreateStaff(ctx context.Context, user *models.User, s *models.Staff) error {
	return r.createWithUser(ctx, user, s, func(id uint) { s.UserID = id }, "email already in use")
}

func (r *AccountRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Staff{}).Where("email = ?", email).Count(&n).Error; err != nil || n > 0 {
		return n > 0, err
	}
	err := db.Model(&models.Volunteer{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// firstWithUser loads one role row together with its user.
func firstWithUser[T any](ctx context.Context, db *gorm.DB, what string, query string, args ...any) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Preload("User").Where(query, args...).First(&out).Error; err != nil {
		return nil, notFound(err, what)
	}
	return &out, nil
}

func listWithUser[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var out []T
	err := db.WithContext(ctx).Preload("User").Order("id").Find(&out).Error
	return out, err
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, what string, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

// saveWithUser writes the role row and the user's profile fields together.
func (r *AccountRepository) saveWithUser(ctx context.Context, user *models.User, role any, conflictMsg string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user != nil {
			if err := updateUserFields(tx, user); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(role).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("%s", conflictMsg)
			}
			return err
		}
		return nil
	})
}

func updateUserFields(tx *gorm.DB, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"full_name":  user.FullName,
		"image_url":  user.ImageURL,
		"updated_at": user.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *AccountRepository) FindParticipantByPhone(ctx context.Context, phone string) (*models.Participant, error) {
	return firstWithUser[models.Participant](ctx, r.db, "participant", "phone = ?", phone)
}

func (r *AccountRepository) FindVolunteerByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	return firstWithUser[models.Volunteer](ctx, r.db, "volunteer", "email = ?", email)
}

func (r *AccountRepository) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return firstWithUser[models.Staff](ctx, r.db, "staff", "email = ?", email)
}

func (r *AccountRepository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return listWithUser[models.Participant](ctx, r.db)
}

func (r *AccountRepository) GetParticipant(ctx context.Context, id uint) (*models.Participant, error) {
	return firstWithUser[models.Participant](ctx, r.db, "participant", "id = ?", id)
}

func (r *AccountRepository) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	return r.saveWithUser(ctx, p.User, p, "phone number already registered")
}

// DeleteParticipant leaves the owning user in place.
func (r *AccountRepository) DeleteParticipant(ctx context.Context, id uint) error {
	return deleteByID[models.Participant](ctx, r.db, "participant", id)
}

func (r *AccountRepository) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	return listWithUser[models.Volunteer](ctx, r.db)
}

func (r *AccountRepository) GetVolunteer(ctx context.Context, id uint) (*models.Volunteer, error) {
	return firstWithUser[models.Volunteer](ctx, r.db, "volunteer", "id = ?", id)
}

func (r *AccountRepository) UpdateVolunteer(ctx context.Context, v *models.Volunteer) error {
	return r.saveWithUser(ctx, v.User, v, "email already in use")
}

func (r *AccountRepository) DeleteVolunteer(ctx context.Context, id uint) error {
	return deleteByID[models.Volunteer](ctx, r.db, "volunteer", id)
}

func (r *AccountRepository) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return listWithUser[models.Staff](ctx, r.db)
}

func (r *AccountRepository) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	return firstWithUser[models.Staff](ctx, r.db, "staff", "id = ?", id)
}

func (r *AccountRepository) UpdateStaff(ctx context.Context, s *models.Staff) error {
	return r.saveWithUser(ctx, s.User, s, "email already in use")
}

func (r *AccountRepository) DeleteStaff(ctx context.Context, id uint) error {
	return deleteByID[models.Staff](ctx, r.db, "staff", id)
}

func (r *AccountRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *AccountRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *AccountRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return updateUserFields(r.db.WithContext(ctx), user)
}

// DeleteAccount deletes whichever role row the user owns, then the user.
func (r *AccountRepository) DeleteAccount(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, role := range []any{&models.Participant{}, &models.Volunteer{}, &models.Staff{}} {
			if err := tx.Where("user_id = ?", userID).Delete(role).Error; err != nil {
				return err
			}
		}
		return deleteByID[models.User](ctx, tx, "user", userID)
	})
}
