package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/core/valueobjects"
	"github.com/Labib591/zyra/domain/events"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// MessageHandler handles the chat message commands
type MessageHandler struct {
	guard     *services.OwnershipGuard
	messages  ports.MessageRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewMessageHandler creates a new handler instance
func NewMessageHandler(guard *services.OwnershipGuard, messages ports.MessageRepository, publisher ports.EventPublisher, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{guard: guard, messages: messages, publisher: publisher, logger: logger}
}

// HandleCreate appends a message to a chat block
func (h *MessageHandler) HandleCreate(ctx context.Context, cmd commands.CreateMessageCommand) (*entities.Message, error) {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return nil, err
	}

	role, err := valueobjects.ParseRole(cmd.Role)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	message, err := entities.NewMessage(cmd.CanvasID, cmd.BlockID, role, cmd.Content)
	if err != nil {
		return nil, err
	}
	if err := h.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewBlockEvent(events.TypeMessageAppended, cmd.CanvasID, cmd.BlockID, cmd.UserID, 1))
	return message, nil
}

// HandleDelete deletes one message or every message of a block
func (h *MessageHandler) HandleDelete(ctx context.Context, cmd commands.DeleteMessagesCommand) (*commands.MessagesDeleted, error) {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return nil, err
	}

	var (
		count   int
		blockID = cmd.BlockID
	)
	if cmd.MessageID != "" {
		message, err := h.messages.GetByID(ctx, cmd.CanvasID, cmd.MessageID)
		if err != nil {
			return nil, err
		}
		if cmd.BlockID != "" && message.BlockID != cmd.BlockID {
			return nil, pkgerrors.NewNotFoundError("Message")
		}
		if err := h.messages.Delete(ctx, cmd.CanvasID, cmd.MessageID); err != nil {
			return nil, err
		}
		count, blockID = 1, message.BlockID
	} else {
		var err error
		count, err = h.messages.DeleteByBlock(ctx, cmd.CanvasID, cmd.BlockID)
		if err != nil {
			return nil, err
		}
	}

	if count > 0 {
		services.PublishBestEffort(ctx, h.publisher, h.logger,
			events.NewBlockEvent(events.TypeMessagesDeleted, cmd.CanvasID, blockID, cmd.UserID, count))
	}
	return &commands.MessagesDeleted{Success: true, DeletedCount: count}, nil
}
