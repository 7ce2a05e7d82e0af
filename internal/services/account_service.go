package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"activity_hub/internal/apperr"
	"activity_hub/internal/models"
)

const birthdateLayout = "2006-01-02"

type ParticipantInput struct {
	FullName  string
	Phone     string
	Birthdate string // YYYY-MM-DD
	ImageURL  *string
}

// CredentialInput creates a volunteer or staff account.
type CredentialInput struct {
	FullName string
	Email    string
	Password string
	ImageURL *string
}

// Nil fields are left unchanged by the update methods.
type ParticipantUpdate struct {
	FullName  *string
	Phone     *string
	Birthdate *string
	ImageURL  *string
}

type CredentialUpdate struct {
	FullName *string
	Email    *string
	Password *string
	ImageURL *string
}

type UserUpdate struct {
	FullName *string
	ImageURL *string
}

type AccountService struct {
	store AccountStore
}

func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) CreateParticipant(ctx context.Context, in ParticipantInput) (*models.Participant, error) {
	name := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, apperr.Validation("full_name and phone are required")
	}
	birthdate, err := parseBirthdate(in.Birthdate)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindParticipantByPhone(ctx, phone); err == nil {
		return nil, apperr.Conflict("phone number already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, apperr.Storage(err, "could not create participant")
	}

	user := &models.User{FullName: name, Role: models.RoleParticipant, ImageURL: in.ImageURL}
	p := &models.Participant{Phone: phone, Birthdate: birthdate}
	if err := s.store.CreateParticipant(ctx, user, p); err != nil {
		return nil, apperr.Storage(err, "could not create participant")
	}
	p.User = user
	return p, nil
}

func (s *AccountService) CreateVolunteer(ctx context.Context, in CredentialInput) (*models.Volunteer, error) {
	user, email, hash, err := s.prepareCredentialAccount(ctx, in, models.RoleVolunteer)
	if err != nil {
		return nil, err
	}
	v := &models.Volunteer{Email: email, PasswordHash: hash}
	if err := s.store.CreateVolunteer(ctx, user, v); err != nil {
		return nil, apperr.Storage(err, "could not create volunteer")
	}
	v.User = user
	return v, nil
}

func (s *AccountService) CreateStaff(ctx context.Context, in CredentialInput) (*models.Staff, error) {
	user, email, hash, err := s.prepareCredentialAccount(ctx, in, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	st := &models.Staff{Email: email, PasswordHash: hash}
	if err := s.store.CreateStaff(ctx, user, st); err != nil {
		return nil, apperr.Storage(err, "could not create staff")
	}
	st.User = user
	return st, nil
}

// prepareCredentialAccount validates input, enforces email uniqueness across
// volunteers and staff and hashes the password.
func (s *AccountService) prepareCredentialAccount(ctx context.Context, in CredentialInput, role string) (*models.User, string, string, error) {
	name := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, "", "", apperr.Validation("full_name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", "", apperr.Validation("invalid email address")
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, "", "", err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", "", err
	}
	return &models.User{FullName: name, Role: role, ImageURL: in.ImageURL}, email, hash, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := s.store.EmailTaken(ctx, email)
	if err != nil {
		return apperr.Storage(err, "could not check email")
	}
	if taken {
		return apperr.Conflict("email already in use")
	}
	return nil
}

// Participants

func (s *AccountService) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	out, err := s.store.ListParticipants(ctx)
	return out, apperr.Storage(err, "could not list participants")
}

func (s *AccountService) GetParticipant(ctx context.Context, id uint) (*models.Participant, error) {
	p, err := s.store.GetParticipant(ctx, id)
	return p, apperr.Storage(err, "could not load participant")
}

func (s *AccountService) UpdateParticipant(ctx context.Context, id uint, in ParticipantUpdate) (*models.Participant, error) {
	p, err := s.store.GetParticipant(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err, "could not load participant")
	}
	if p.User == nil {
		return nil, apperr.NotFound("user for participant not found")
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperr.Validation("full_name cannot be empty")
		}
		p.User.FullName = name
	}
	if in.ImageURL != nil {
		p.User.ImageURL = emptyToNil(*in.ImageURL)
	}
	if in.Birthdate != nil {
		bd, err := parseBirthdate(*in.Birthdate)
		if err != nil {
			return nil, err
		}
		p.Birthdate = bd
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, apperr.Validation("phone cannot be empty")
		}
		if phone != p.Phone {
			if _, err := s.store.FindParticipantByPhone(ctx, phone); err == nil {
				return nil, apperr.Conflict("phone number already registered")
			} else if !apperr.IsNotFound(err) {
				return nil, apperr.Storage(err, "could not update participant")
			}
			p.Phone = phone
		}
	}

	if err := s.store.UpdateParticipant(ctx, p); err != nil {
		return nil, apperr.Storage(err, "could not update participant")
	}
	return p, nil
}

// DeleteParticipant removes only the participant row; the owning user stays.
func (s *AccountService) DeleteParticipant(ctx context.Context, id uint) error {
	return apperr.Storage(s.store.DeleteParticipant(ctx, id), "could not delete participant")
}

// Volunteers

func (s *AccountService) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	out, err := s.store.ListVolunteers(ctx)
	return out, apperr.Storage(err, "could not list volunteers")
}

func (s *AccountService) GetVolunteer(ctx context.Context, id uint) (*models.Volunteer, error) {
	v, err := s.store.GetVolunteer(ctx, id)
	return v, apperr.Storage(err, "could not load volunteer")
}

func (s *AccountService) UpdateVolunteer(ctx context.Context, id uint, in CredentialUpdate) (*models.Volunteer, error) {
	v, err := s.store.GetVolunteer(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err, "could not load volunteer")
	}
	if v.User == nil {
		return nil, apperr.NotFound("user for volunteer not found")
	}
	if err := s.applyCredentialUpdate(ctx, v.User, &v.Email, &v.PasswordHash, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateVolunteer(ctx, v); err != nil {
		return nil, apperr.Storage(err, "could not update volunteer")
	}
	return v, nil
}

func (s *AccountService) DeleteVolunteer(ctx context.Context, id uint) error {
	return apperr.Storage(s.store.DeleteVolunteer(ctx, id), "could not delete volunteer")
}

// Staff

func (s *AccountService) ListStaff(ctx context.Context) ([]models.Staff, error) {
	out, err := s.store.ListStaff(ctx)
	return out, apperr.Storage(err, "could not list staff")
}

func (s *AccountService) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	st, err := s.store.GetStaff(ctx, id)
	return st, apperr.Storage(err, "could not load staff")
}

func (s *AccountService) UpdateStaff(ctx context.Context, id uint, in CredentialUpdate) (*models.Staff, error) {
	st, err := s.store.GetStaff(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err, "could not load staff")
	}
	if st.User == nil {
		return nil, apperr.NotFound("user for staff not found")
	}
	if err := s.applyCredentialUpdate(ctx, st.User, &st.Email, &st.PasswordHash, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStaff(ctx, st); err != nil {
		return nil, apperr.Storage(err, "could not update staff")
	}
	return st, nil
}

func (s *AccountService) DeleteStaff(ctx context.Context, id uint) error {
	return apperr.Storage(s.store.DeleteStaff(ctx, id), "could not delete staff")
}

func (s *AccountService) applyCredentialUpdate(ctx context.Context, user *models.User, email, hash *string, in CredentialUpdate) error {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return apperr.Validation("full_name cannot be empty")
		}
		user.FullName = name
	}
	if in.ImageURL != nil {
		user.ImageURL = emptyToNil(*in.ImageURL)
	}
	if in.Email != nil {
		next := normalizeEmail(*in.Email)
		if !strings.Contains(next, "@") {
			return apperr.Validation("invalid email address")
		}
		if next != *email {
			if err := s.ensureEmailFree(ctx, next); err != nil {
				return err
			}
			*email = next
		}
	}
	if in.Password != nil {
		if *in.Password == "" {
			return apperr.Validation("password cannot be empty")
		}
		h, err := hashPassword(*in.Password)
		if err != nil {
			return err
		}
		*hash = h
	}
	return nil
}

// Users

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	out, err := s.store.ListUsers(ctx)
	return out, apperr.Storage(err, "could not list users")
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	return u, apperr.Storage(err, "could not load user")
}

// UpdateUser changes profile fields. The role is never changed here.
func (s *AccountService) UpdateUser(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err, "could not load user")
	}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperr.Validation("full_name cannot be empty")
		}
		u.FullName = name
	}
	if in.ImageURL != nil {
		u.ImageURL = emptyToNil(*in.ImageURL)
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, apperr.Storage(err, "could not update user")
	}
	return u, nil
}

// DeleteAccount removes the caller's role row and user record together.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	return apperr.Storage(s.store.DeleteAccount(ctx, userID), "could not delete account")
}

func parseBirthdate(raw string) (time.Time, error) {
	bd, err := time.Parse(birthdateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperr.Validation("birthdate must be formatted YYYY-MM-DD")
	}
	if bd.After(time.Now()) {
		return time.Time{}, apperr.Validation("birthdate cannot be in the future")
	}
	return bd, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return "", apperr.Storage(err, "could not hash password")
	}
	return string(bytes), nil
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
