package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/commands/bus"
	"github.com/Labib591/zyra/application/queries"
	querybus "github.com/Labib591/zyra/application/queries/bus"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// MessageHandler handles chat block conversation requests
type MessageHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		logger:     logger,
	}
}

// ListMessages handles GET /canvases/{canvasID}/messages?blockId=
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListMessagesQuery{
		UserID:   userID,
		CanvasID: chi.URLParam(r, "canvasID"),
		BlockID:  r.URL.Query().Get("blockId"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}

// CreateMessage handles POST /canvases/{canvasID}/messages
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var cmd commands.CreateMessageCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd.UserID = userID
	cmd.CanvasID = chi.URLParam(r, "canvasID")

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, result)
}

// DeleteMessages handles DELETE /canvases/{canvasID}/messages. The body names
// either one message or a whole block.
func (h *MessageHandler) DeleteMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var cmd commands.DeleteMessagesCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd.UserID = userID
	cmd.CanvasID = chi.URLParam(r, "canvasID")

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}
