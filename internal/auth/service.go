// Package auth owns the session lifecycle: credential checks, bearer
// tokens and their server-side records.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quicksent/db"
	"quicksent/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = errors.New("session expired")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account is not active")
)

// Store is the slice of storage the auth service needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetUser(ctx context.Context, id string) (*db.User, error)
	CreateUser(ctx context.Context, u *db.User) error
	RecordLogin(ctx context.Context, userID string, at time.Time) error
	RecordFailedLogin(ctx context.Context, userID string) error

	CreateSession(ctx context.Context, sess *db.Session) error
	GetSessionByTokenHash(ctx context.Context, hash string) (*db.Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeleteSessionByTokenHash(ctx context.Context, hash string) error

	AppendActivity(ctx context.Context, a *db.ActivityLog) error
}

type Service struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewService(store Store, ttl time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, ttl: ttl, now: now}
}

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone,omitempty"`
}

// Login exchanges credentials for a user and a plain bearer token. Only
// the token's hash is persisted.
func (s *Service) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*db.User, string, *db.Session, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		_ = s.store.RecordFailedLogin(ctx, user.ID)
		return nil, "", nil, ErrInvalidCredentials
	}
	if user.Status == models.UserBlocked || user.Status == models.UserSuspended {
		return nil, "", nil, ErrAccountDisabled
	}

	plain, hash, err := newTokenPair()
	if err != nil {
		return nil, "", nil, err
	}

	now := s.now()
	session := &db.Session{
		UserID:    user.ID,
		TokenHash: hash,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.UTC().Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, "", nil, err
	}

	_ = s.store.RecordLogin(ctx, user.ID, now.UTC())
	_ = s.store.AppendActivity(ctx, &db.ActivityLog{
		UserID:    user.ID,
		UserName:  user.FirstName + " " + user.LastName,
		Action:    "login",
		Resource:  "auth",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Success:   true,
	})

	return user, plain, session, nil
}

// Authenticate resolves a bearer token to its user. An expired session is
// deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*db.User, *db.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, ErrUnauthorized
	}

	hash := hashToken(token)
	session, err := s.store.GetSessionByTokenHash(ctx, hash)
	if err != nil {
		return nil, nil, ErrUnauthorized
	}
	if session.ExpiresAt.Before(s.now().UTC()) {
		_ = s.store.DeleteSessionByTokenHash(ctx, hash)
		return nil, nil, ErrSessionExpired
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		// orphaned session
		_ = s.store.DeleteSessionByTokenHash(ctx, hash)
		return nil, nil, ErrUnauthorized
	}

	_ = s.store.TouchSession(ctx, session.ID, s.now().UTC())
	return user, session, nil
}

// Logout revokes the session. Revocation failures are swallowed: from the
// caller's perspective logout always succeeds.
func (s *Service) Logout(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	hash := hashToken(token)

	if session, err := s.store.GetSessionByTokenHash(ctx, hash); err == nil {
		_ = s.store.AppendActivity(ctx, &db.ActivityLog{
			UserID:    session.UserID,
			Action:    "logout",
			Resource:  "auth",
			IPAddress: session.IPAddress,
			UserAgent: session.UserAgent,
			Success:   true,
		})
	}
	_ = s.store.DeleteSessionByTokenHash(ctx, hash)
}

// Register creates a pending account with the default client role and
// logs it straight in.
func (s *Service) Register(ctx context.Context, input RegisterInput, ipAddress, userAgent string) (*db.User, string, *db.Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, "", nil, errors.New("email and password are required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, "", nil, errors.New("passwords do not match")
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, "", nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", nil, err
	}

	user := &db.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         models.RoleKlient,
		Status:       models.UserPending,
		Phone:        input.Phone,
		Language:     "pl",
		Timezone:     "Europe/Warsaw",
		Theme:        "light",
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", nil, err
	}

	return s.Login(ctx, email, input.Password, ipAddress, userAgent)
}

// HashPassword is used by the user-management handlers when an admin
// creates an account directly.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newTokenPair() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plain := base64.RawURLEncoding.EncodeToString(raw)
	return plain, hashToken(plain), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum[:])
}
