package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/events"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// PDFHandler handles PDF upload and removal
type PDFHandler struct {
	guard     *services.OwnershipGuard
	pdfs      ports.PDFRepository
	store     ports.ObjectStore
	extractor ports.TextExtractor
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPDFHandler creates a new handler instance
func NewPDFHandler(
	guard *services.OwnershipGuard,
	pdfs ports.PDFRepository,
	store ports.ObjectStore,
	extractor ports.TextExtractor,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *PDFHandler {
	return &PDFHandler{
		guard:     guard,
		pdfs:      pdfs,
		store:     store,
		extractor: extractor,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleUpload stores the file remotely and records it for the block. A
// previous PDF on the same block is replaced.
func (h *PDFHandler) HandleUpload(ctx context.Context, cmd commands.UploadPDFCommand) (*entities.PDF, error) {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return nil, err
	}
	if !mimetype.Detect(cmd.Data).Is(entities.PDFMimeType) {
		return nil, entities.ErrNotPDF()
	}

	text, err := h.extractor.ExtractText(ctx, cmd.Data)
	if err != nil {
		h.logger.Warn("PDF text extraction failed, storing without text",
			zap.String("canvas_id", cmd.CanvasID),
			zap.String("block_id", cmd.BlockID),
			zap.Error(err),
		)
		text = ""
	}

	size := int64(len(cmd.Data))
	stored, err := h.store.Upload(ctx, ports.UploadRequest{
		Key:         fmt.Sprintf("%s_%s_%d", cmd.CanvasID, cmd.BlockID, h.now().UnixMilli()),
		FileName:    cmd.FileName,
		ContentType: entities.PDFMimeType,
		Size:        size,
		Body:        bytes.NewReader(cmd.Data),
	})
	if err != nil {
		return nil, pkgerrors.NewUpstreamError("object-store", err)
	}

	if previous, err := h.pdfs.GetByBlock(ctx, cmd.CanvasID, cmd.BlockID); err == nil {
		deleteRemoteObject(ctx, h.store, h.logger, previous)
		if err := h.pdfs.Delete(ctx, cmd.CanvasID, previous.ID); err != nil {
			return nil, err
		}
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	pdf := entities.NewPDF(cmd.CanvasID, cmd.BlockID, cmd.FileName, stored.URL, stored.Key, size, text)
	if err := h.pdfs.Create(ctx, pdf); err != nil {
		deleteRemoteObject(ctx, h.store, h.logger, pdf)
		return nil, err
	}

	h.logger.Info("PDF uploaded",
		zap.String("pdf_id", pdf.ID),
		zap.String("canvas_id", cmd.CanvasID),
		zap.Int64("size", size),
		zap.Int("text_length", len(text)),
	)
	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewBlockEvent(events.TypePDFUploaded, cmd.CanvasID, cmd.BlockID, cmd.UserID, 1))

	return pdf, nil
}

// HandleDelete removes the remote object best effort, then the record.
func (h *PDFHandler) HandleDelete(ctx context.Context, cmd commands.DeletePDFCommand) error {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return err
	}

	pdf, err := h.pdfs.GetByBlock(ctx, cmd.CanvasID, cmd.BlockID)
	if err != nil {
		return err
	}

	deleteRemoteObject(ctx, h.store, h.logger, pdf)
	if err := h.pdfs.Delete(ctx, cmd.CanvasID, pdf.ID); err != nil {
		return err
	}

	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewBlockEvent(events.TypePDFDeleted, cmd.CanvasID, cmd.BlockID, cmd.UserID, 1))
	return nil
}
