package queries

import (
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/pkg/utils"
)

// GetCanvasQuery loads a canvas with all its child records
type GetCanvasQuery struct {
	UserID   string `validate:"required"`
	CanvasID string `validate:"required"`
}

func (q GetCanvasQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CanvasData is a canvas plus its notes, messages and PDFs
type CanvasData struct {
	*entities.Canvas
	Notes    []*entities.Note    `json:"notes"`
	Messages []*entities.Message `json:"messages"`
	PDFs     []*entities.PDF     `json:"pdfs"`
}

// ListCanvasesQuery lists the caller's canvases, newest first
type ListCanvasesQuery struct {
	UserID string `validate:"required"`
}

func (q ListCanvasesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListNotesQuery lists the notes of a canvas
type ListNotesQuery struct {
	UserID   string `validate:"required"`
	CanvasID string `json:"canvasId" validate:"required"`
}

func (q ListNotesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListMessagesQuery lists the conversation of one chat block
type ListMessagesQuery struct {
	UserID   string `validate:"required"`
	CanvasID string `validate:"required"`
	BlockID  string `json:"blockId" validate:"required"`
}

func (q ListMessagesQuery) Validate() error {
	return utils.ValidateStruct(q)
}
