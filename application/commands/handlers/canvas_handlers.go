package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/events"
)

// CreateCanvasHandler handles CreateCanvasCommand
type CreateCanvasHandler struct {
	canvases  ports.CanvasRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewCreateCanvasHandler creates a new handler instance
func NewCreateCanvasHandler(canvases ports.CanvasRepository, publisher ports.EventPublisher, logger *zap.Logger) *CreateCanvasHandler {
	return &CreateCanvasHandler{canvases: canvases, publisher: publisher, logger: logger}
}

// Handle creates the canvas and returns it
func (h *CreateCanvasHandler) Handle(ctx context.Context, cmd commands.CreateCanvasCommand) (*entities.Canvas, error) {
	canvas, err := entities.NewCanvas(cmd.UserID, cmd.Title, cmd.Nodes, cmd.Edges)
	if err != nil {
		return nil, err
	}
	if err := h.canvases.Save(ctx, canvas); err != nil {
		return nil, err
	}

	h.logger.Info("Canvas created",
		zap.String("canvas_id", canvas.ID),
		zap.String("user_id", cmd.UserID),
	)
	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewCanvasEvent(events.TypeCanvasCreated, canvas.ID, cmd.UserID, canvas.Title))

	return canvas, nil
}

// UpdateCanvasHandler handles UpdateCanvasCommand
type UpdateCanvasHandler struct {
	guard     *services.OwnershipGuard
	canvases  ports.CanvasRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUpdateCanvasHandler creates a new handler instance
func NewUpdateCanvasHandler(guard *services.OwnershipGuard, canvases ports.CanvasRepository, publisher ports.EventPublisher, logger *zap.Logger) *UpdateCanvasHandler {
	return &UpdateCanvasHandler{guard: guard, canvases: canvases, publisher: publisher, logger: logger}
}

// Handle overwrites only the supplied fields. The save is a full replace,
// so concurrent editors resolve as last writer wins.
func (h *UpdateCanvasHandler) Handle(ctx context.Context, cmd commands.UpdateCanvasCommand) (*entities.Canvas, error) {
	canvas, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	if cmd.Patch.IsEmpty() {
		return canvas, nil
	}

	if err := canvas.Apply(cmd.Patch); err != nil {
		return nil, err
	}
	if err := h.canvases.Save(ctx, canvas); err != nil {
		return nil, err
	}

	h.logger.Debug("Canvas updated",
		zap.String("canvas_id", canvas.ID),
		zap.Bool("title", cmd.Patch.Title != nil),
		zap.Bool("nodes", cmd.Patch.Nodes != nil),
		zap.Bool("edges", cmd.Patch.Edges != nil),
	)
	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewCanvasEvent(events.TypeCanvasUpdated, canvas.ID, cmd.UserID, canvas.Title))

	return canvas, nil
}

// DeleteCanvasHandler handles DeleteCanvasCommand
type DeleteCanvasHandler struct {
	guard     *services.OwnershipGuard
	canvases  ports.CanvasRepository
	notes     ports.NoteRepository
	messages  ports.MessageRepository
	pdfs      ports.PDFRepository
	store     ports.ObjectStore
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteCanvasHandler creates a new handler instance
func NewDeleteCanvasHandler(
	guard *services.OwnershipGuard,
	canvases ports.CanvasRepository,
	notes ports.NoteRepository,
	messages ports.MessageRepository,
	pdfs ports.PDFRepository,
	store ports.ObjectStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteCanvasHandler {
	return &DeleteCanvasHandler{
		guard:     guard,
		canvases:  canvases,
		notes:     notes,
		messages:  messages,
		pdfs:      pdfs,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle removes PDFs, notes and messages before the canvas itself. Remote
// PDF objects are deleted best effort.
func (h *DeleteCanvasHandler) Handle(ctx context.Context, cmd commands.DeleteCanvasCommand) (*commands.CanvasDeletion, error) {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return nil, err
	}

	pdfs, err := h.pdfs.ListByCanvas(ctx, cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	for _, pdf := range pdfs {
		deleteRemoteObject(ctx, h.store, h.logger, pdf)
		if err := h.pdfs.Delete(ctx, cmd.CanvasID, pdf.ID); err != nil {
			return nil, err
		}
	}

	notesDeleted, err := h.notes.DeleteByCanvas(ctx, cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	messagesDeleted, err := h.messages.DeleteByCanvas(ctx, cmd.CanvasID)
	if err != nil {
		return nil, err
	}
	if err := h.canvases.Delete(ctx, cmd.CanvasID); err != nil {
		return nil, err
	}

	result := &commands.CanvasDeletion{
		NotesDeleted:    notesDeleted,
		MessagesDeleted: messagesDeleted,
		PDFsDeleted:     len(pdfs),
	}
	h.logger.Info("Canvas deleted",
		zap.String("canvas_id", cmd.CanvasID),
		zap.Int("notes", result.NotesDeleted),
		zap.Int("messages", result.MessagesDeleted),
		zap.Int("pdfs", result.PDFsDeleted),
	)
	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewCanvasDeleted(cmd.CanvasID, cmd.UserID, notesDeleted, messagesDeleted, len(pdfs)))

	return result, nil
}

// deleteRemoteObject never fails: the database record is removed regardless.
func deleteRemoteObject(ctx context.Context, store ports.ObjectStore, logger *zap.Logger, pdf *entities.PDF) {
	if pdf.StorageKey == "" {
		return
	}
	if err := store.Delete(ctx, pdf.StorageKey); err != nil {
		logger.Warn("Failed to delete PDF from object store",
			zap.String("pdf_id", pdf.ID),
			zap.String("storage_key", pdf.StorageKey),
			zap.Error(err),
		)
	}
}
