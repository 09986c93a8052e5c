package workspace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
)

// DefaultAutosaveDelay is the quiet period before a graph edit is saved
const DefaultAutosaveDelay = 500 * time.Millisecond

// CanvasUpdater persists a canvas patch
type CanvasUpdater interface {
	UpdateCanvas(ctx context.Context, canvasID string, patch client.CanvasPatch) (*client.Canvas, error)
}

// AutosaveOption configures an Autosaver
type AutosaveOption func(*Autosaver)

// WithAutosaveDelay overrides DefaultAutosaveDelay
func WithAutosaveDelay(d time.Duration) AutosaveOption {
	return func(a *Autosaver) { a.delay = d }
}

// WithSaveHook is called after every save attempt with its outcome
func WithSaveHook(fn func(canvasID string, err error)) AutosaveOption {
	return func(a *Autosaver) { a.onSave = fn }
}

// Autosaver pushes the full graph to the server after edits settle
type Autosaver struct {
	store  *Store
	cache  *QueryCache
	api    CanvasUpdater
	logger *zap.Logger
	delay  time.Duration
	onSave func(canvasID string, err error)

	debouncer   *Debouncer
	initialized atomic.Bool
	unsubscribe func()

	ctx    context.Context
	cancel context.CancelFunc

	// saveMu serializes saves
	saveMu sync.Mutex
}

// NewAutosaver creates an autosaver. Call Start to begin watching the store.
func NewAutosaver(store *Store, cache *QueryCache, api CanvasUpdater, logger *zap.Logger, opts ...AutosaveOption) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Autosaver{
		store:  store,
		cache:  cache,
		api:    api,
		logger: logger,
		delay:  DefaultAutosaveDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.debouncer = NewDebouncer(a.delay)
	return a
}

// Start subscribes to the store. Saves run with a context derived from ctx.
func (a *Autosaver) Start(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.unsubscribe = a.store.Subscribe(a.onChange)
}

// MarkInitialized opens the gate once the store holds the server's graph.
// Edits made before this are never saved.
func (a *Autosaver) MarkInitialized() {
	a.initialized.Store(true)
}

// Initialized reports whether the gate is open
func (a *Autosaver) Initialized() bool {
	return a.initialized.Load()
}

// Pending reports whether a save is armed for the open canvas
func (a *Autosaver) Pending() bool {
	return a.debouncer.Pending(a.store.CanvasID())
}

// Flush saves the open canvas now if a save is armed
func (a *Autosaver) Flush() bool {
	return a.debouncer.Flush(a.store.CanvasID())
}

// Close flushes any pending save, then stops watching the store
func (a *Autosaver) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.Flush()
	a.debouncer.Stop()
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *Autosaver) onChange(snap Snapshot) {
	if snap.Hydrated {
		return
	}
	if !a.initialized.Load() || snap.CanvasID == "" {
		return
	}
	canvasID := snap.CanvasID
	a.debouncer.Trigger(canvasID, func() { a.save(canvasID) })
}

// save sends whatever the store holds when the timer fires
func (a *Autosaver) save(canvasID string) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	snap := a.store.Snapshot()
	if snap.CanvasID != canvasID {
		return
	}

	nodes, edges, err := graph.Encode(snap.Nodes, snap.Edges)
	if err != nil {
		a.logger.Error("Failed to encode graph", zap.String("canvas_id", canvasID), zap.Error(err))
		a.report(canvasID, err)
		return
	}

	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	err = a.cache.Mutate(ctx, canvasID,
		func(data *client.CanvasData) {
			data.Nodes = nodes
			data.Edges = edges
		},
		func(ctx context.Context) error {
			_, err := a.api.UpdateCanvas(ctx, canvasID, client.CanvasPatch{Nodes: nodes, Edges: edges})
			return err
		},
	)
	if err != nil {
		a.logger.Warn("Autosave failed",
			zap.String("canvas_id", canvasID),
			zap.Int("nodes", len(snap.Nodes)),
			zap.Int("edges", len(snap.Edges)),
			zap.Error(err),
		)
	} else {
		a.logger.Debug("Canvas saved", zap.String("canvas_id", canvasID))
	}
	a.report(canvasID, err)
}

func (a *Autosaver) report(canvasID string, err error) {
	if a.onSave != nil {
		a.onSave(canvasID, err)
	}
}
