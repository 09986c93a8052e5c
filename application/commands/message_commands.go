package commands

import (
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
	"github.com/Labib591/zyra/pkg/utils"
)

// CreateMessageCommand appends a message to a chat block
type CreateMessageCommand struct {
	UserID   string `json:"-" validate:"required"`
	CanvasID string `json:"-" validate:"required"`
	BlockID  string `json:"blockId" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user assistant"`
	Content  string `json:"content" validate:"notblank"`
}

func (c CreateMessageCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteMessagesCommand deletes a single message when MessageID is set,
// otherwise every message of BlockID.
type DeleteMessagesCommand struct {
	UserID    string `json:"-" validate:"required"`
	CanvasID  string `json:"-" validate:"required"`
	MessageID string `json:"messageId"`
	BlockID   string `json:"blockId"`
}

func (c DeleteMessagesCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.MessageID == "" && c.BlockID == "" {
		return pkgerrors.NewValidationError("messageId or blockId is required")
	}
	return nil
}

// MessagesDeleted is the result of DeleteMessagesCommand
type MessagesDeleted struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}
