// Package workspace keeps an open canvas in sync with the API: the local
// graph store, the read cache, debounced autosave and per-node chat.
package workspace

import (
	"sync"

	"github.com/Labib591/zyra/pkg/graph"
)

// Snapshot is a copy of the store at one point in time
type Snapshot struct {
	CanvasID string
	Nodes    []graph.Node
	Edges    []graph.Edge

	// Hydrated is set for the change produced by Load, which mirrors server
	// state rather than a local edit.
	Hydrated bool
}

// Store holds the graph of the open canvas
type Store struct {
	mu       sync.RWMutex
	canvasID string
	nodes    []graph.Node
	edges    []graph.Edge

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nodes: []graph.Node{},
		edges: []graph.Edge{},
		subs:  make(map[int]func(Snapshot)),
	}
}

// Load replaces the whole store with a canvas read from the server
func (s *Store) Load(canvasID string, nodes []graph.Node, edges []graph.Edge) {
	s.mu.Lock()
	s.canvasID = canvasID
	s.nodes = clone(nodes)
	s.edges = clone(edges)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	snap.Hydrated = true
	s.notify(snap)
}

// CanvasID returns the id of the loaded canvas
func (s *Store) CanvasID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canvasID
}

// Snapshot returns a copy of the current graph
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SetNodes replaces the node list
func (s *Store) SetNodes(update graph.NodesUpdate) {
	s.apply(func() {
		s.nodes = clone(update(clone(s.nodes)))
	})
}

// SetEdges replaces the edge list
func (s *Store) SetEdges(update graph.EdgesUpdate) {
	s.apply(func() {
		s.edges = clone(update(clone(s.edges)))
	})
}

// DeleteNode removes a node along with every edge touching it
func (s *Store) DeleteNode(id string) {
	s.apply(func() {
		s.nodes, s.edges = graph.DeleteNode(s.nodes, s.edges, id)
	})
}

// DeleteEdge removes one edge
func (s *Store) DeleteEdge(id string) {
	s.apply(func() {
		s.edges = graph.DeleteEdge(s.edges, id)
	})
}

// Subscribe registers fn for every later change. Callbacks run on the
// goroutine that made the change, after the store lock is released.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) apply(mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		CanvasID: s.canvasID,
		Nodes:    clone(s.nodes),
		Edges:    clone(s.edges),
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
