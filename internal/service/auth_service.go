package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/brixxspace/brixxspace-api/internal/config"
	"github.com/brixxspace/brixxspace-api/internal/logging"
	"github.com/brixxspace/brixxspace-api/internal/mailer"
	"github.com/brixxspace/brixxspace-api/internal/model"
	"github.com/brixxspace/brixxspace-api/internal/queue"
	"github.com/brixxspace/brixxspace-api/internal/repository"
	"github.com/brixxspace/brixxspace-api/internal/utils"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// UserStore is the subset of repository.UserRepo the service relies on.
type UserStore interface {
	Create(ctx context.Context, u *model.User, password string, cost int) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uint64, p model.ProfilePatch) error
	UpdatePassword(ctx context.Context, email, password string, cost int) error
}

// OtpStore is the subset of repository.OtpRepo the service relies on.
type OtpStore interface {
	DeleteByEmail(ctx context.Context, email string) error
	Insert(ctx context.Context, o *model.OtpRecord) error
	DeleteByID(ctx context.Context, id uint64) error
	FindMatch(ctx context.Context, email, code string) (model.OtpRecord, error)
}

// AuthOptions carries the tunables of AuthService.
type AuthOptions struct {
	JWTSecret        string
	SessionTTL       time.Duration
	BcryptCost       int
	OTPTTL           time.Duration
	AdminEmails      []string
	RequireSignupOTP bool
}

// OptionsFromConfig derives AuthOptions from the application config.
func OptionsFromConfig(cfg config.Config) AuthOptions {
	return AuthOptions{
		JWTSecret:        cfg.JWTSecret,
		SessionTTL:       time.Duration(cfg.SessionTTLDays) * 24 * time.Hour,
		BcryptCost:       cfg.BcryptCost,
		OTPTTL:           cfg.OTPTTL,
		AdminEmails:      cfg.AdminEmails,
		RequireSignupOTP: cfg.SignupOTP,
	}
}

// AuthService implements registration, login, OTP issuance and
// verification, password reset and profile management.
type AuthService struct {
	opts      AuthOptions
	users     UserStore
	otps      OtpStore
	mail      mailer.Mailer
	publisher EventPublisher
	log       logging.Logger

	// Now and NewCode are replaceable in tests.
	Now     func() time.Time
	NewCode func() (string, error)
}

// NewAuthService wires the service.  publisher may be nil, in which case no
// events are emitted.
func NewAuthService(opts AuthOptions, users UserStore, otps OtpStore, m mailer.Mailer, pub EventPublisher, log logging.Logger) *AuthService {
	return &AuthService{
		opts:      opts,
		users:     users,
		otps:      otps,
		mail:      m,
		publisher: pub,
		log:       log,
		Now:       func() time.Time { return time.Now().UTC() },
		NewCode:   GenerateCode,
	}
}

// GenerateCode returns six independent uniformly random decimal digits.
func GenerateCode() (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  model.User
	Token utils.SessionToken
}

// SendOTP issues a fresh code for email and mails it.  Any earlier code for
// the email is discarded first.
func (s *AuthService) SendOTP(ctx context.Context, email, purpose string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return newError(ErrValidation, "email is required")
	}
	if purpose != model.OTPSignup && purpose != model.OTPForgotPassword {
		return newError(ErrValidation, "invalid OTP type")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if purpose == model.OTPSignup && exists {
		return newError(ErrConflict, "user already exists")
	}
	if purpose == model.OTPForgotPassword && !exists {
		return newError(ErrNotFound, "user not found")
	}

	code, err := s.NewCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otps.DeleteByEmail(ctx, email); err != nil {
		return err
	}
	now := s.Now()
	rec := &model.OtpRecord{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.OTPTTL),
	}
	if err := s.otps.Insert(ctx, rec); err != nil {
		return err
	}

	if err := s.mail.Send(ctx, mailer.OTPMessage(email, code, purpose, s.opts.OTPTTL)); err != nil {
		// An undelivered code must not stay valid.
		if derr := s.otps.DeleteByID(ctx, rec.ID); derr != nil {
			s.log.Error(ctx, "otp cleanup after mail failure", "email", email, "err", derr)
		}
		return fmt.Errorf("send otp email: %w", err)
	}
	s.log.Info(ctx, "otp issued", "email", email, "purpose", purpose)
	return nil
}

// VerifyOTP reports whether code is the live code for email.  The record is
// left in place.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	_, err := s.matchOTP(ctx, email, code)
	return err
}

func (s *AuthService) matchOTP(ctx context.Context, email, code string) (model.OtpRecord, error) {
	email, code = strings.TrimSpace(email), strings.TrimSpace(code)
	if email == "" || code == "" {
		return model.OtpRecord{}, newError(ErrValidation, "email and otp are required")
	}
	rec, err := s.otps.FindMatch(ctx, email, code)
	if errors.Is(err, repository.ErrNotFound) {
		return model.OtpRecord{}, ErrInvalidOTP
	}
	if err != nil {
		return model.OtpRecord{}, err
	}
	if rec.Expired(s.Now()) {
		return model.OtpRecord{}, ErrInvalidOTP
	}
	return rec, nil
}

// RegisterInput is the payload of Register.  OTP is optional unless signup
// verification is enforced.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	OTP      string
}

// Register creates an account, signs a session token for it and announces
// the registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return AuthResult{}, newError(ErrValidation, "fullName, email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return AuthResult{}, newError(ErrValidation, "invalid email")
	}
	if len(in.Password) < MinPasswordLen {
		return AuthResult{}, newError(ErrValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	if s.opts.RequireSignupOTP && in.OTP == "" {
		return AuthResult{}, newError(ErrValidation, "otp is required")
	}
	if in.OTP != "" {
		if _, err := s.matchOTP(ctx, in.Email, in.OTP); err != nil {
			return AuthResult{}, err
		}
	}

	u := model.User{Email: in.Email, FullName: in.FullName, Role: s.roleFor(in.Email)}
	if err := s.users.Create(ctx, &u, in.Password, s.opts.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, newError(ErrConflict, "user already exists")
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	now := s.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	if in.OTP != "" {
		if err := s.otps.DeleteByEmail(ctx, in.Email); err != nil {
			s.log.Warn(ctx, "consume signup otp", "email", in.Email, "err", err)
		}
	}

	tok, err := utils.NewSessionToken(s.opts.JWTSecret, u.ID, u.Role, s.opts.SessionTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue session: %w", err)
	}

	if s.publisher != nil {
		ev := queue.UserRegisteredEvent{
			UserID:       u.ID,
			Email:        u.Email,
			FullName:     u.FullName,
			Role:         u.Role,
			RegisteredAt: now.Format(time.RFC3339),
		}
		if err := s.publisher.PublishUserRegistered(ctx, ev); err != nil {
			s.log.Warn(ctx, "publish user.registered", "user_id", u.ID, "err", err)
		}
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return AuthResult{User: u, Token: tok}, nil
}

// roleFor grants admin to configured addresses only.  The comparison is
// exact, matching how emails are stored.
func (s *AuthService) roleFor(email string) string {
	for _, a := range s.opts.AdminEmails {
		if a == email {
			return model.RoleAdmin
		}
	}
	return model.RoleUser
}

// Login checks credentials and signs a new session token.  Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, newError(ErrValidation, "email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, newError(ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return AuthResult{}, newError(ErrUnauthorized, "invalid credentials")
	}
	tok, err := utils.NewSessionToken(s.opts.JWTSecret, u.ID, u.Role, s.opts.SessionTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue session: %w", err)
	}
	return AuthResult{User: u, Token: tok}, nil
}

// ResetPassword replaces the password of email after checking otp, then
// discards every code issued for the email.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, password string) error {
	email = strings.TrimSpace(email)
	if len(password) < MinPasswordLen {
		return newError(ErrValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	if _, err := s.matchOTP(ctx, email, otp); err != nil {
		return err
	}
	err := s.users.UpdatePassword(ctx, email, password, s.opts.BcryptCost)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "user not found")
	}
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.otps.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	s.log.Info(ctx, "password reset", "email", email)
	return nil
}

// Profile loads the account of id.
func (s *AuthService) Profile(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, newError(ErrNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies p and returns the refreshed account.
func (s *AuthService) UpdateProfile(ctx context.Context, id uint64, p model.ProfilePatch) (model.User, error) {
	if p.FullName != nil && strings.TrimSpace(*p.FullName) == "" {
		return model.User{}, newError(ErrValidation, "fullName cannot be empty")
	}
	err := s.users.UpdateProfile(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, newError(ErrNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return s.Profile(ctx, id)
}
