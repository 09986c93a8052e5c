// Package bus routes read operations to their handlers by query type.
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/Labib591/zyra/application/ports"
)

// Query is a validated read request
type Query interface {
	Validate() error
}

// HandlerFunc answers one query
type HandlerFunc func(ctx context.Context, query Query) (interface{}, error)

type Middleware func(next HandlerFunc) HandlerFunc

// QueryBus dispatches queries to the handler registered for their type
type QueryBus struct {
	mu          sync.RWMutex
	routes      map[reflect.Type]HandlerFunc
	middlewares []Middleware
}

func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		routes:      make(map[reflect.Type]HandlerFunc),
		middlewares: middlewares,
	}
}

// Register routes queries shaped like sample to h
func (b *QueryBus) Register(sample Query, h HandlerFunc) error {
	t := reflect.TypeOf(sample)
	for i := len(b.middlewares) - 1; i >= 0; i-- {
		h = b.middlewares[i](h)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.routes[t]; dup {
		return fmt.Errorf("query %s already has a handler", t.Name())
	}
	b.routes[t] = h
	return nil
}

// Handle registers a typed handler for queries of type Q
func Handle[Q Query, R any](b *QueryBus, fn func(context.Context, Q) (R, error)) error {
	var sample Q
	return b.Register(sample, func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("query %T routed to handler for %T", query, sample)
		}
		return fn(ctx, typed)
	})
}

// Ask validates query and returns its handler's answer
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %T: %w", query, err)
	}

	b.mu.RLock()
	h, ok := b.routes[reflect.TypeOf(query)]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for query %T", query)
	}

	result, err := h(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%T: %w", query, err)
	}
	return result, nil
}

// AskAs is Ask with the answer asserted to R
func AskAs[R any](ctx context.Context, b *QueryBus, query Query) (R, error) {
	var zero R
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("query %T returned %T, want %T", query, result, zero)
	}
	return typed, nil
}

// MetricsMiddleware records queries_total and query_duration_seconds
func MetricsMiddleware(metrics ports.Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, query Query) (interface{}, error) {
			start := time.Now()
			result, err := next(ctx, query)

			tags := map[string]string{"query": reflect.TypeOf(query).Name(), "status": "success"}
			if err != nil {
				tags["status"] = "error"
			}
			metrics.IncrementCounter("queries_total", tags)
			metrics.RecordDuration("query_duration_seconds", time.Since(start).Seconds(), tags)
			return result, err
		}
	}
}
