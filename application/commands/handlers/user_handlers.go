package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/events"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// RegisterUserHandler handles RegisterUserCommand
type RegisterUserHandler struct {
	users     ports.UserRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewRegisterUserHandler creates a new handler instance
func NewRegisterUserHandler(users ports.UserRepository, publisher ports.EventPublisher, logger *zap.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{users: users, publisher: publisher, logger: logger}
}

// Handle creates a credential account. The returned user never carries the
// password hash in its JSON form.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd commands.RegisterUserCommand) (*entities.User, error) {
	email := entities.NormalizeEmail(cmd.Email)

	if _, err := h.users.GetByEmail(ctx, email); err == nil {
		return nil, pkgerrors.NewValidationError("User already exists")
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}
	user, err := entities.NewUser(email, cmd.Name, &hash)
	if err != nil {
		return nil, err
	}
	if err := h.users.Create(ctx, user); err != nil {
		if pkgerrors.IsConflict(err) {
			return nil, pkgerrors.NewValidationError("User already exists")
		}
		return nil, err
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("provider", "credentials"))
	services.PublishBestEffort(ctx, h.publisher, h.logger, events.NewUserRegistered(user.ID, "credentials"))
	return user, nil
}
