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

// NoteHandler handles the note commands
type NoteHandler struct {
	guard     *services.OwnershipGuard
	notes     ports.NoteRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewNoteHandler creates a new handler instance
func NewNoteHandler(guard *services.OwnershipGuard, notes ports.NoteRepository, publisher ports.EventPublisher, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{guard: guard, notes: notes, publisher: publisher, logger: logger}
}

// HandleCreate creates the note for a node on first edit
func (h *NoteHandler) HandleCreate(ctx context.Context, cmd commands.CreateNoteCommand) (*entities.Note, error) {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return nil, err
	}

	note, err := entities.NewNote(cmd.NoteID, cmd.CanvasID, cmd.UserID, cmd.Content)
	if err != nil {
		return nil, err
	}
	if err := h.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewBlockEvent(events.TypeNoteSaved, cmd.CanvasID, cmd.NoteID, cmd.UserID, 1))
	return note, nil
}

// HandleUpdate replaces the content of an existing note
func (h *NoteHandler) HandleUpdate(ctx context.Context, cmd commands.UpdateNoteCommand) (*entities.Note, error) {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return nil, err
	}

	note, err := h.notes.GetByID(ctx, cmd.CanvasID, cmd.NoteID)
	if err != nil {
		return nil, err
	}
	note.UpdateContent(cmd.Content)
	if err := h.notes.Update(ctx, note); err != nil {
		return nil, err
	}

	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewBlockEvent(events.TypeNoteSaved, cmd.CanvasID, cmd.NoteID, cmd.UserID, 1))
	return note, nil
}

// HandleDelete removes a note
func (h *NoteHandler) HandleDelete(ctx context.Context, cmd commands.DeleteNoteCommand) error {
	if _, err := h.guard.Authorize(ctx, cmd.UserID, cmd.CanvasID); err != nil {
		return err
	}

	if _, err := h.notes.GetByID(ctx, cmd.CanvasID, cmd.NoteID); err != nil {
		return err
	}
	if err := h.notes.Delete(ctx, cmd.CanvasID, cmd.NoteID); err != nil {
		return err
	}

	services.PublishBestEffort(ctx, h.publisher, h.logger,
		events.NewBlockEvent(events.TypeNoteDeleted, cmd.CanvasID, cmd.NoteID, cmd.UserID, 1))
	return nil
}
