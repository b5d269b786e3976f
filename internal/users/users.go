// Package users handles accounts, password checks and the local session.
package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid email or password")

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Store is the slice of storage the account service needs
type Store interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

type Service struct {
	store Store
	now   func() time.Time
	cost  int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCost sets the bcrypt cost
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

func (r RegisterRequest) validate() error {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return apperrors.Validation("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return apperrors.Validation("invalid email format")
	}
	if strings.TrimSpace(r.Password) == "" {
		return apperrors.Validation("password cannot be empty")
	}
	if len(r.Password) < constants.MinPasswordLength {
		return apperrors.Validation("password must be at least %d characters", constants.MinPasswordLength)
	}
	if r.Password != r.ConfirmPassword {
		return apperrors.Validation("passwords do not match")
	}
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.Validation("name cannot be empty")
	}
	return nil
}

// Register creates the account without starting a session
func (s *Service) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	if err := req.validate(); err != nil {
		return models.User{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, apperrors.Validation("email %s is already registered", email)
	} else if !apperrors.IsNotFound(err) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		JoinedAt:     s.now(),
		Settings:     DefaultSettings(),
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		return models.User{}, err
	}
	logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks credentials and stamps the login time
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" {
		return models.User{}, apperrors.Validation("email cannot be empty")
	}
	if strings.TrimSpace(password) == "" {
		return models.User{}, apperrors.Validation("password cannot be empty")
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperrors.IsNotFound(err) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Debug("Password mismatch", "user_id", user.ID)
		return models.User{}, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	if user.Settings, err = s.Settings(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login authenticates and records the user as the local session
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	if err := s.StartSession(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	logger.Info("User logged in", "user_id", user.ID)
	return user, nil
}

// StartSession makes userID the local session user
func (s *Service) StartSession(ctx context.Context, userID string) error {
	return s.store.SetSetting(ctx, constants.SettingSessionUserID, userID)
}

// Logout ends the local session. It is a no-op when nobody is logged in.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.DeleteSetting(ctx, constants.SettingSessionUserID)
}

// CurrentID returns the session user id or errors.ErrUnauthenticated
func (s *Service) CurrentID(ctx context.Context) (string, error) {
	id, err := s.store.GetSetting(ctx, constants.SettingSessionUserID)
	if apperrors.IsNotFound(err) || (err == nil && id == "") {
		return "", apperrors.ErrUnauthenticated
	}
	return id, err
}

// Current loads the session user with settings
func (s *Service) Current(ctx context.Context) (models.User, error) {
	id, err := s.CurrentID(ctx)
	if err != nil {
		return models.User{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if user.Settings, err = s.Settings(ctx, id); err != nil {
		return models.User{}, err
	}
	return user, nil
}
