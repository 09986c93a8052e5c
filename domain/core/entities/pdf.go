package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// MaxPDFSize is the largest accepted upload, 10 MiB.
const MaxPDFSize int64 = 10 * 1024 * 1024

// PDFMimeType is the only accepted content type for uploads.
const PDFMimeType = "application/pdf"

// Error codes reported with rejected uploads.
const (
	CodeNotPDF      = "not_pdf"
	CodePDFTooLarge = "file_too_large"
)

// ErrNotPDF rejects an upload whose declared or sniffed type is not a PDF.
func ErrNotPDF() *pkgerrors.AppError {
	return pkgerrors.NewValidationError("File must be a PDF").WithCode(CodeNotPDF)
}

// ErrPDFTooLarge rejects an upload above MaxPDFSize.
func ErrPDFTooLarge() *pkgerrors.AppError {
	return pkgerrors.NewValidationError(
		fmt.Sprintf("File size must be less than %dMB", MaxPDFSize/(1024*1024))).WithCode(CodePDFTooLarge)
}

// PDF is the stored reference to a document uploaded into a PDF block.
type PDF struct {
	ID            string    `json:"id"`
	CanvasID      string    `json:"canvasId"`
	BlockID       string    `json:"blockId"`
	FileName      string    `json:"fileName"`
	FileURL       string    `json:"fileUrl"`
	StorageKey    string    `json:"-"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	ExtractedText string    `json:"extractedText"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewPDF records an object that has already been stored remotely
func NewPDF(canvasID, blockID, fileName, fileURL, storageKey string, size int64, text string) *PDF {
	return &PDF{
		ID:            uuid.NewString(),
		CanvasID:      canvasID,
		BlockID:       blockID,
		FileName:      fileName,
		FileURL:       fileURL,
		StorageKey:    storageKey,
		FileType:      PDFMimeType,
		FileSize:      size,
		ExtractedText: text,
		CreatedAt:     time.Now().UTC(),
	}
}
