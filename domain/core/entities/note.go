package entities

import (
	"time"

	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// Note holds the rich-text content of a note block. Its ID is the ID of the
// graph node it belongs to.
type Note struct {
	ID        string    `json:"id"`
	CanvasID  string    `json:"canvasId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewNote creates the note for the node noteID
func NewNote(noteID, canvasID, userID, content string) (*Note, error) {
	if noteID == "" {
		return nil, pkgerrors.NewValidationError("noteId is required")
	}
	if canvasID == "" {
		return nil, pkgerrors.NewValidationError("canvasId is required")
	}

	now := time.Now().UTC()
	return &Note{
		ID:        noteID,
		CanvasID:  canvasID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateContent replaces the note body
func (n *Note) UpdateContent(content string) {
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
}
