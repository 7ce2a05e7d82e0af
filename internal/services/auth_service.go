package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"activity_hub/internal/apperr"
	"activity_hub/internal/models"
	"activity_hub/internal/otp"
)

type OTPConfig struct {
	TTL time.Duration
	// TestCode is always accepted when non-empty. Meant for staging builds
	// where no SMS gateway is attached.
	TestCode string
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type CheckOrCreateInput struct {
	Phone     string
	FullName  string
	Birthdate string
	ImageURL  *string
}

type CheckOrCreateResult struct {
	Exists      bool                `json:"exists"`
	Participant *models.Participant `json:"participant"`
}

// AuthService logs staff and volunteers in with a password and participants
// with a one-time code sent to their phone.
type AuthService struct {
	accounts AccountStore
	creator  *AccountService
	tokens   TokenIssuer
	codes    otp.Store
	sender   otp.Sender
	otpCfg   OTPConfig
}

func NewAuthService(accounts AccountStore, tokens TokenIssuer, codes otp.Store, sender otp.Sender, cfg OTPConfig) *AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &AuthService{
		accounts: accounts,
		creator:  NewAccountService(accounts),
		tokens:   tokens,
		codes:    codes,
		sender:   sender,
		otpCfg:   cfg,
	}
}

// Login checks the credentials against staff first, then volunteers.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, hash, err := s.findCredentials(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	return s.issue(user)
}

func (s *AuthService) findCredentials(ctx context.Context, email string) (*models.User, string, error) {
	st, err := s.accounts.FindStaffByEmail(ctx, email)
	if err == nil {
		return st.User, st.PasswordHash, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, "", apperr.Storage(err, "could not load account")
	}

	v, err := s.accounts.FindVolunteerByEmail(ctx, email)
	if err == nil {
		return v.User, v.PasswordHash, nil
	}
	if apperr.IsNotFound(err) {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}
	return nil, "", apperr.Storage(err, "could not load account")
}

// CheckOrCreateParticipant starts the phone login. An unknown phone is
// registered on the spot when a name and birthdate are supplied. Either way
// a fresh code replaces any earlier one.
func (s *AuthService) CheckOrCreateParticipant(ctx context.Context, in CheckOrCreateInput) (*CheckOrCreateResult, error) {
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, apperr.Validation("phone is required")
	}

	res := &CheckOrCreateResult{}
	p, err := s.accounts.FindParticipantByPhone(ctx, phone)
	switch {
	case err == nil:
		res.Exists = true
		res.Participant = p
	case apperr.IsNotFound(err):
		if strings.TrimSpace(in.FullName) == "" && strings.TrimSpace(in.Birthdate) == "" {
			return nil, apperr.NotFound("participant not found")
		}
		p, err = s.creator.CreateParticipant(ctx, ParticipantInput{
			FullName:  in.FullName,
			Phone:     phone,
			Birthdate: in.Birthdate,
			ImageURL:  in.ImageURL,
		})
		if err != nil {
			return nil, err
		}
		res.Participant = p
	default:
		return nil, apperr.Storage(err, "could not load participant")
	}

	if err := s.issueCode(ctx, phone); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) issueCode(ctx context.Context, phone string) error {
	code, err := otp.GenerateCode()
	if err != nil {
		return apperr.Storage(err, "could not generate code")
	}
	if err := s.codes.Save(ctx, phone, code, s.otpCfg.TTL); err != nil {
		return apperr.Storage(err, "could not store code")
	}
	if err := s.sender.Send(ctx, phone, code); err != nil {
		// The code is stored; the participant can ask for another one.
		logrus.WithError(err).Warn("failed to deliver one-time code")
	}
	return nil
}

// LoginWithOTP exchanges a phone number and code for a participant token.
// A stored code is consumed by its first successful use.
func (s *AuthService) LoginWithOTP(ctx context.Context, phone, code string) (*LoginResult, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, apperr.Validation("phone and otp are required")
	}

	p, err := s.accounts.FindParticipantByPhone(ctx, phone)
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthorized("invalid phone or code")
	}
	if err != nil {
		return nil, apperr.Storage(err, "could not load participant")
	}

	if !s.isTestCode(code) {
		ok, err := s.codes.Consume(ctx, phone, code)
		if err != nil {
			return nil, apperr.Storage(err, "could not verify code")
		}
		if !ok {
			return nil, apperr.Unauthorized("invalid or expired code")
		}
	}

	if p.User == nil {
		u, err := s.accounts.GetUser(ctx, p.UserID)
		if err != nil {
			return nil, apperr.Storage(err, "could not load user")
		}
		p.User = u
	}
	return s.issue(p.User)
}

func (s *AuthService) isTestCode(code string) bool {
	t := s.otpCfg.TestCode
	return t != "" && subtle.ConstantTimeCompare([]byte(t), []byte(code)) == 1
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	if user == nil {
		return nil, apperr.Unauthorized("account has no user record")
	}
	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Storage(err, "could not generate token")
	}
	return &LoginResult{Token: token, User: user}, nil
}
