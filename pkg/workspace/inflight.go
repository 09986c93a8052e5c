package workspace

import (
	"errors"
	"sync"
	"time"
)

// DefaultInFlightLimit caps concurrent chat requests across all nodes
const DefaultInFlightLimit = 32

var (
	ErrRequestInFlight = errors.New("a request for this chat block is already in progress")
	ErrTooManyRequests = errors.New("too many chat requests in progress")
)

// InFlight tracks which chat nodes are waiting on the assistant. Each node
// has at most one request outstanding; nodes do not block each other.
type InFlight struct {
	limit int

	mu      sync.Mutex
	started map[string]time.Time
}

// NewInFlight creates a tracker holding at most limit entries
func NewInFlight(limit int) *InFlight {
	if limit <= 0 {
		limit = DefaultInFlightLimit
	}
	return &InFlight{
		limit:   limit,
		started: make(map[string]time.Time),
	}
}

// TryStart marks nodeID busy
func (f *InFlight) TryStart(nodeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.started[nodeID]; busy {
		return ErrRequestInFlight
	}
	if len(f.started) >= f.limit {
		return ErrTooManyRequests
	}
	f.started[nodeID] = time.Now()
	return nil
}

// Done clears nodeID
func (f *InFlight) Done(nodeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.started, nodeID)
}

// Busy reports whether nodeID has a request outstanding
func (f *InFlight) Busy(nodeID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.started[nodeID]
	return busy
}

// Since returns when the outstanding request for nodeID started
func (f *InFlight) Since(nodeID string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.started[nodeID]
	return t, ok
}

// Len is the number of busy nodes
func (f *InFlight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started)
}
