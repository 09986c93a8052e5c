package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/commands/bus"
	"github.com/Labib591/zyra/application/queries"
	querybus "github.com/Labib591/zyra/application/queries/bus"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/core/valueobjects"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// CanvasHandler handles canvas-related HTTP requests
type CanvasHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *CanvasHandler {
	return &CanvasHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		logger:     logger,
	}
}

// canvasRequest is the body of create and patch. Absent fields stay nil.
type canvasRequest struct {
	Title *string         `json:"title"`
	Nodes json.RawMessage `json:"nodes"`
	Edges json.RawMessage `json:"edges"`
}

func (req canvasRequest) graph() (nodes, edges valueobjects.GraphDocument, err error) {
	if nodes, err = graphField("nodes", req.Nodes); err != nil {
		return nil, nil, err
	}
	if edges, err = graphField("edges", req.Edges); err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

func graphField(name string, raw json.RawMessage) (valueobjects.GraphDocument, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	doc, err := valueobjects.NewGraphDocument(raw)
	if err != nil {
		return nil, pkgerrors.NewValidationError(name + " must be a JSON array")
	}
	return doc, nil
}

// ListCanvases handles GET /canvases
func (h *CanvasHandler) ListCanvases(w http.ResponseWriter, r *http.Request) {
	canvases, ok := h.list(w, r)
	if ok {
		respondJSON(w, h.logger, http.StatusOK, canvases)
	}
}

// MyCanvases handles GET /my-canvases
func (h *CanvasHandler) MyCanvases(w http.ResponseWriter, r *http.Request) {
	canvases, ok := h.list(w, r)
	if ok {
		respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"canvases": canvases})
	}
}

func (h *CanvasHandler) list(w http.ResponseWriter, r *http.Request) ([]*entities.Canvas, bool) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return nil, false
	}

	canvases, err := querybus.AskAs[[]*entities.Canvas](r.Context(), h.queryBus, queries.ListCanvasesQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return nil, false
	}
	return canvases, true
}

// CreateCanvas handles POST /canvases
func (h *CanvasHandler) CreateCanvas(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req canvasRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.errors.Handle(w, r, err)
			return
		}
	}
	nodes, edges, err := req.graph()
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.CreateCanvasCommand{UserID: userID, Nodes: nodes, Edges: edges}
	if req.Title != nil {
		cmd.Title = *req.Title
	}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, result)
}

// GetCanvas handles GET /canvases/{canvasID}
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetCanvasQuery{
		UserID:   userID,
		CanvasID: chi.URLParam(r, "canvasID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}

// UpdateCanvas handles PATCH /canvases/{canvasID}
func (h *CanvasHandler) UpdateCanvas(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req canvasRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	nodes, edges, err := req.graph()
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.UpdateCanvasCommand{
		UserID:   userID,
		CanvasID: chi.URLParam(r, "canvasID"),
		Patch:    entities.CanvasPatch{Title: req.Title, Nodes: nodes, Edges: edges},
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}

// DeleteCanvas handles DELETE /canvases/{canvasID}
func (h *CanvasHandler) DeleteCanvas(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	canvasID := chi.URLParam(r, "canvasID")
	deletion, err := bus.SendAs[*commands.CanvasDeletion](r.Context(), h.commandBus, commands.DeleteCanvasCommand{UserID: userID, CanvasID: canvasID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Info("Canvas deleted",
		zap.String("canvas_id", canvasID),
		zap.Int("notes", deletion.NotesDeleted),
		zap.Int("messages", deletion.MessagesDeleted),
		zap.Int("pdfs", deletion.PDFsDeleted),
	)
	respondJSON(w, h.logger, http.StatusOK, successResponse{Success: true})
}
