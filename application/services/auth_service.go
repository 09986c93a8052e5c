package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/events"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// Session is an issued sign-in token
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      *entities.User `json:"user"`
}

// AuthService signs users in with credentials or a Google profile.
type AuthService struct {
	users     ports.UserRepository
	sessions  *auth.SessionManager
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(users ports.UserRepository, sessions *auth.SessionManager, publisher ports.EventPublisher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
	}
}

// Login verifies email and password and issues a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := pkgerrors.NewUnauthorizedError("Invalid email or password")

	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.HasPassword() {
		return nil, invalid
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, invalid
		}
		return nil, pkgerrors.NewInternalError("failed to verify password").WithCause(err)
	}

	return s.issue(user)
}

// SignInWithGoogle finds or creates the account for a verified Google
// profile. New accounts have no password.
func (s *AuthService) SignInWithGoogle(ctx context.Context, profile *auth.GoogleProfile) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(profile.Email))
	switch {
	case err == nil:
	case pkgerrors.IsNotFound(err):
		user, err = entities.NewUser(profile.Email, profile.Name, nil)
		if err != nil {
			return nil, err
		}
		user.Image = profile.Picture
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("provider", "google"))
		PublishBestEffort(ctx, s.publisher, s.logger, events.NewUserRegistered(user.ID, "google"))
	default:
		return nil, err
	}

	return s.issue(user)
}

// CurrentUser loads the account behind a validated session
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entities.User, error) {
	if userID == "" {
		return nil, pkgerrors.NewUnauthorizedError("")
	}
	user, err := s.users.GetByID(ctx, userID)
	if pkgerrors.IsNotFound(err) {
		return nil, pkgerrors.NewUnauthorizedError("")
	}
	return user, err
}

func (s *AuthService) issue(user *entities.User) (*Session, error) {
	token, expiresAt, err := s.sessions.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to issue session").WithCause(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
