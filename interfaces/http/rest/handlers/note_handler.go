package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/commands/bus"
	"github.com/Labib591/zyra/application/queries"
	querybus "github.com/Labib591/zyra/application/queries/bus"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// NoteHandler handles note block requests
type NoteHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		logger:     logger,
	}
}

// ListNotes handles GET /notes?canvasId=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListNotesQuery{
		UserID:   userID,
		CanvasID: r.URL.Query().Get("canvasId"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}

// CreateNote handles POST /notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateNoteCommand
	h.send(w, r, &cmd, func(userID string) bus.Command {
		cmd.UserID = userID
		return cmd
	})
}

// UpdateNote handles PATCH /notes
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateNoteCommand
	h.send(w, r, &cmd, func(userID string) bus.Command {
		cmd.UserID = userID
		return cmd
	})
}

// DeleteNote handles DELETE /notes
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var cmd commands.DeleteNoteCommand
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

// send decodes body into dst, stamps the caller and dispatches the command
func (h *NoteHandler) send(w http.ResponseWriter, r *http.Request, dst interface{}, build func(userID string) bus.Command) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := decodeJSON(w, r, dst); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), build(userID))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}
