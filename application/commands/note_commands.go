package commands

import "github.com/Labib591/zyra/pkg/utils"

// CreateNoteCommand creates the note for a note block
type CreateNoteCommand struct {
	UserID   string `json:"-" validate:"required"`
	CanvasID string `json:"canvasId" validate:"required"`
	NoteID   string `json:"noteId" validate:"required"`
	Content  string `json:"content"`
}

func (c CreateNoteCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateNoteCommand replaces a note's content
type UpdateNoteCommand struct {
	UserID   string `json:"-" validate:"required"`
	CanvasID string `json:"canvasId" validate:"required"`
	NoteID   string `json:"noteId" validate:"required"`
	Content  string `json:"content"`
}

func (c UpdateNoteCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteNoteCommand removes a note
type DeleteNoteCommand struct {
	UserID   string `json:"-" validate:"required"`
	CanvasID string `json:"canvasId" validate:"required"`
	NoteID   string `json:"noteId" validate:"required"`
}

func (c DeleteNoteCommand) Validate() error {
	return utils.ValidateStruct(c)
}
