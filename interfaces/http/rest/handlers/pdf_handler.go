package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/commands/bus"
	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// multipartOverhead leaves room for the form fields around the file part
const multipartOverhead = 1 << 20

// PDFHandler handles PDF block uploads
type PDFHandler struct {
	commandBus *bus.CommandBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewPDFHandler creates a new PDF handler
func NewPDFHandler(commandBus *bus.CommandBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *PDFHandler {
	return &PDFHandler{
		commandBus: commandBus,
		errors:     errs,
		logger:     logger,
	}
}

// UploadPDF handles POST /pdfs (multipart: file, canvasId, blockId)
func (h *PDFHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, entities.MaxPDFSize+multipartOverhead)
	if err := r.ParseMultipartForm(entities.MaxPDFSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errors.Handle(w, r, entities.ErrPDFTooLarge())
			return
		}
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid multipart form").WithCause(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("file is required"))
		return
	}
	defer file.Close()

	if header.Size > entities.MaxPDFSize {
		h.errors.Handle(w, r, entities.ErrPDFTooLarge())
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, entities.MaxPDFSize+1))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Failed to read file").WithCause(err))
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.UploadPDFCommand{
		UserID:      userID,
		CanvasID:    r.FormValue("canvasId"),
		BlockID:     r.FormValue("blockId"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, result)
}

// DeletePDF handles DELETE /pdfs
func (h *PDFHandler) DeletePDF(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var cmd commands.DeletePDFCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd.UserID = userID

	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, successResponse{Success: true})
}
