package handlers

import (
	"context"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/queries"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/domain/core/entities"
)

// NoteQueryHandler answers ListNotesQuery
type NoteQueryHandler struct {
	guard *services.OwnershipGuard
	notes ports.NoteRepository
}

// NewNoteQueryHandler creates a new handler instance
func NewNoteQueryHandler(guard *services.OwnershipGuard, notes ports.NoteRepository) *NoteQueryHandler {
	return &NoteQueryHandler{guard: guard, notes: notes}
}

func (h *NoteQueryHandler) Handle(ctx context.Context, q queries.ListNotesQuery) ([]*entities.Note, error) {
	if _, err := h.guard.Authorize(ctx, q.UserID, q.CanvasID); err != nil {
		return nil, err
	}
	notes, err := h.notes.ListByCanvas(ctx, q.CanvasID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*entities.Note{}
	}
	return notes, nil
}

// MessageQueryHandler answers ListMessagesQuery
type MessageQueryHandler struct {
	guard    *services.OwnershipGuard
	messages ports.MessageRepository
}

// NewMessageQueryHandler creates a new handler instance
func NewMessageQueryHandler(guard *services.OwnershipGuard, messages ports.MessageRepository) *MessageQueryHandler {
	return &MessageQueryHandler{guard: guard, messages: messages}
}

func (h *MessageQueryHandler) Handle(ctx context.Context, q queries.ListMessagesQuery) ([]*entities.Message, error) {
	if _, err := h.guard.Authorize(ctx, q.UserID, q.CanvasID); err != nil {
		return nil, err
	}
	messages, err := h.messages.ListByBlock(ctx, q.CanvasID, q.BlockID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entities.Message{}
	}
	return messages, nil
}
