// Package bus routes write operations to their handlers by command type.
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
)

// Command is a validated request to change state
type Command interface {
	Validate() error
}

// HandlerFunc runs one command. The result is whatever the command produced
// (the saved entity, a delete count) or nil.
type HandlerFunc func(ctx context.Context, cmd Command) (interface{}, error)

// Middleware decorates every registered handler
type Middleware func(next HandlerFunc) HandlerFunc

// CommandBus dispatches commands to the handler registered for their type
type CommandBus struct {
	mu          sync.RWMutex
	routes      map[reflect.Type]HandlerFunc
	middlewares []Middleware
}

func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{
		routes:      make(map[reflect.Type]HandlerFunc),
		middlewares: middlewares,
	}
}

// Register routes commands shaped like sample to h. Middlewares wrap h in
// the order they were given to NewCommandBus, outermost first.
func (b *CommandBus) Register(sample Command, h HandlerFunc) error {
	t := reflect.TypeOf(sample)
	for i := len(b.middlewares) - 1; i >= 0; i-- {
		h = b.middlewares[i](h)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.routes[t]; dup {
		return fmt.Errorf("command %s already has a handler", t.Name())
	}
	b.routes[t] = h
	return nil
}

// Handle registers a typed handler for commands of type C
func Handle[C Command, R any](b *CommandBus, fn func(context.Context, C) (R, error)) error {
	var sample C
	return b.Register(sample, func(ctx context.Context, cmd Command) (interface{}, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("command %T routed to handler for %T", cmd, sample)
		}
		return fn(ctx, typed)
	})
}

// HandleErr registers a handler for commands that produce no result
func HandleErr[C Command](b *CommandBus, fn func(context.Context, C) error) error {
	return Handle(b, func(ctx context.Context, cmd C) (struct{}, error) {
		return struct{}{}, fn(ctx, cmd)
	})
}

// Send validates cmd and runs its handler. Validation and handler errors are
// wrapped with %w so their AppError type survives.
func (b *CommandBus) Send(ctx context.Context, cmd Command) (interface{}, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %T: %w", cmd, err)
	}

	b.mu.RLock()
	h, ok := b.routes[reflect.TypeOf(cmd)]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for command %T", cmd)
	}

	result, err := h(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%T: %w", cmd, err)
	}
	return result, nil
}

// SendAs is Send with the result asserted to R
func SendAs[R any](ctx context.Context, b *CommandBus, cmd Command) (R, error) {
	var zero R
	result, err := b.Send(ctx, cmd)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("command %T returned %T, want %T", cmd, result, zero)
	}
	return typed, nil
}

func commandName(cmd Command) string { return reflect.TypeOf(cmd).Name() }

// LoggingMiddleware logs failures at warn and successes at debug
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) (interface{}, error) {
			start := time.Now()
			result, err := next(ctx, cmd)

			fields := []zap.Field{
				zap.String("command", commandName(cmd)),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("Command failed", append(fields, zap.Error(err))...)
				return nil, err
			}
			logger.Debug("Command handled", fields...)
			return result, nil
		}
	}
}

// MetricsMiddleware records commands_total and command_duration_seconds
// tagged by command and status.
func MetricsMiddleware(metrics ports.Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd Command) (interface{}, error) {
			start := time.Now()
			result, err := next(ctx, cmd)

			tags := map[string]string{"command": commandName(cmd), "status": "success"}
			if err != nil {
				tags["status"] = "error"
			}
			metrics.IncrementCounter("commands_total", tags)
			metrics.RecordDuration("command_duration_seconds", time.Since(start).Seconds(), tags)
			return result, err
		}
	}
}
