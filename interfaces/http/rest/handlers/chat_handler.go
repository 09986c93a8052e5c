package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// ChatHandler proxies a conversation to the model
type ChatHandler struct {
	chat   *services.ChatService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, errors: errs, logger: logger}
}

type chatRequest struct {
	Messages []ports.ChatTurn `json:"messages"`
	Context  string           `json:"context"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if _, err := currentUser(r); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	reply, err := h.chat.Reply(r.Context(), req.Messages, req.Context)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, chatResponse{Response: reply})
}
