package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Labib591/zyra/domain/core/valueobjects"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// Message is one turn of the conversation attached to a chat block.
type Message struct {
	ID        string            `json:"id"`
	CanvasID  string            `json:"canvasId"`
	BlockID   string            `json:"blockId"`
	Role      valueobjects.Role `json:"role"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewMessage creates a message for the chat block blockID
func NewMessage(canvasID, blockID string, role valueobjects.Role, content string) (*Message, error) {
	if canvasID == "" || blockID == "" {
		return nil, pkgerrors.NewValidationError("canvasId and blockId are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("content is required")
	}
	if _, err := valueobjects.ParseRole(string(role)); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	return &Message{
		ID:        uuid.NewString(),
		CanvasID:  canvasID,
		BlockID:   blockID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}
