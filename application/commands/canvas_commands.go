package commands

import (
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/core/valueobjects"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
	"github.com/Labib591/zyra/pkg/utils"
)

// CreateCanvasCommand creates a canvas for the caller
type CreateCanvasCommand struct {
	UserID string                     `json:"userId" validate:"required"`
	Title  string                     `json:"title" validate:"max=200"`
	Nodes  valueobjects.GraphDocument `json:"nodes"`
	Edges  valueobjects.GraphDocument `json:"edges"`
}

func (c CreateCanvasCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateCanvasCommand applies a partial update to a canvas
type UpdateCanvasCommand struct {
	UserID   string `validate:"required"`
	CanvasID string `validate:"required"`
	Patch    entities.CanvasPatch
}

func (c UpdateCanvasCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Patch.Title != nil && len(*c.Patch.Title) > 200 {
		return pkgerrors.NewValidationError("title must be at most 200 characters")
	}
	return nil
}

// DeleteCanvasCommand deletes a canvas and everything attached to it
type DeleteCanvasCommand struct {
	UserID   string `validate:"required"`
	CanvasID string `validate:"required"`
}

func (c DeleteCanvasCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// CanvasDeletion summarizes a cascade delete
type CanvasDeletion struct {
	NotesDeleted    int `json:"notesDeleted"`
	MessagesDeleted int `json:"messagesDeleted"`
	PDFsDeleted     int `json:"pdfsDeleted"`
}
