package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
)

// API is everything an open canvas needs from the server
type API interface {
	CanvasUpdater
	ChatAPI
	BlockAPI
	GetCanvas(ctx context.Context, canvasID string) (*client.CanvasData, error)
}

// Workspace is one open canvas: its graph, read cache, autosave and chat.
// Block records written through it keep Cache current, so chat context
// reflects them without waiting for a refetch.
type Workspace struct {
	Store    *Store
	Cache    *QueryCache
	Autosave *Autosaver
	Chat     *ChatSession

	api      API
	inflight *InFlight
}

// Open loads canvasID, hydrates the store and starts autosaving. Close must
// be called to flush the last edit.
func Open(ctx context.Context, api API, canvasID string, logger *zap.Logger, opts ...AutosaveOption) (*Workspace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("canvas_id", canvasID))

	cache := NewQueryCache(api.GetCanvas, logger)
	if err := cache.Refetch(ctx, canvasID); err != nil {
		return nil, fmt.Errorf("load canvas %s: %w", canvasID, err)
	}
	data, _ := cache.Get(canvasID)

	nodes, err := graph.DecodeNodes(data.Nodes)
	if err != nil {
		return nil, err
	}
	edges, err := graph.DecodeEdges(data.Edges)
	if err != nil {
		return nil, err
	}

	store := NewStore()
	autosave := NewAutosaver(store, cache, api, logger, opts...)
	autosave.Start(ctx)
	store.Load(canvasID, nodes, edges)
	autosave.MarkInitialized()

	inflight := NewInFlight(DefaultInFlightLimit)
	return &Workspace{
		Store:    store,
		Cache:    cache,
		Autosave: autosave,
		Chat:     NewChatSession(api, store, cache, inflight, logger),
		api:      api,
		inflight: inflight,
	}, nil
}

// Data returns the cached canvas record
func (w *Workspace) Data() (*client.CanvasData, bool) {
	return w.Cache.Get(w.Store.CanvasID())
}

// Refresh reloads the cached record from the server
func (w *Workspace) Refresh(ctx context.Context) error {
	return w.Cache.Refetch(ctx, w.Store.CanvasID())
}

// Close saves any pending edit and stops autosaving
func (w *Workspace) Close() {
	w.Autosave.Close()
}
