package handlers

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/queries"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/domain/core/entities"
)

// CanvasQueryHandler answers canvas read queries
type CanvasQueryHandler struct {
	guard    *services.OwnershipGuard
	canvases ports.CanvasRepository
	notes    ports.NoteRepository
	messages ports.MessageRepository
	pdfs     ports.PDFRepository
	logger   *zap.Logger
}

// NewCanvasQueryHandler creates a new handler instance
func NewCanvasQueryHandler(
	guard *services.OwnershipGuard,
	canvases ports.CanvasRepository,
	notes ports.NoteRepository,
	messages ports.MessageRepository,
	pdfs ports.PDFRepository,
	logger *zap.Logger,
) *CanvasQueryHandler {
	return &CanvasQueryHandler{
		guard:    guard,
		canvases: canvases,
		notes:    notes,
		messages: messages,
		pdfs:     pdfs,
		logger:   logger,
	}
}

// HandleGet loads the canvas and its children concurrently
func (h *CanvasQueryHandler) HandleGet(ctx context.Context, q queries.GetCanvasQuery) (*queries.CanvasData, error) {
	canvas, err := h.guard.Authorize(ctx, q.UserID, q.CanvasID)
	if err != nil {
		return nil, err
	}

	data := &queries.CanvasData{Canvas: canvas}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		notes, err := h.notes.ListByCanvas(gctx, canvas.ID)
		data.Notes = notes
		return err
	})
	g.Go(func() error {
		messages, err := h.messages.ListByCanvas(gctx, canvas.ID)
		data.Messages = messages
		return err
	})
	g.Go(func() error {
		pdfs, err := h.pdfs.ListByCanvas(gctx, canvas.ID)
		data.PDFs = pdfs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if data.Notes == nil {
		data.Notes = []*entities.Note{}
	}
	if data.Messages == nil {
		data.Messages = []*entities.Message{}
	}
	if data.PDFs == nil {
		data.PDFs = []*entities.PDF{}
	}
	return data, nil
}

// HandleList returns the caller's canvases, newest first
func (h *CanvasQueryHandler) HandleList(ctx context.Context, q queries.ListCanvasesQuery) ([]*entities.Canvas, error) {
	canvases, err := h.canvases.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if canvases == nil {
		canvases = []*entities.Canvas{}
	}
	return canvases, nil
}
