package commands

import (
	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
	"github.com/Labib591/zyra/pkg/utils"
)

// UploadPDFCommand stores a PDF for a PDF block, replacing any previous one
type UploadPDFCommand struct {
	UserID      string `validate:"required"`
	CanvasID    string `json:"canvasId" validate:"required"`
	BlockID     string `json:"blockId" validate:"required"`
	FileName    string `json:"fileName" validate:"required"`
	ContentType string
	Data        []byte
}

func (c UploadPDFCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.ContentType != entities.PDFMimeType {
		return entities.ErrNotPDF()
	}
	if len(c.Data) == 0 {
		return pkgerrors.NewValidationError("file is required")
	}
	if int64(len(c.Data)) > entities.MaxPDFSize {
		return entities.ErrPDFTooLarge()
	}
	return nil
}

// DeletePDFCommand removes the PDF of a block
type DeletePDFCommand struct {
	UserID   string `json:"-" validate:"required"`
	CanvasID string `json:"canvasId" validate:"required"`
	BlockID  string `json:"blockId" validate:"required"`
}

func (c DeletePDFCommand) Validate() error {
	return utils.ValidateStruct(c)
}
