package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

type lookupQuery struct {
	ID string
}

func (q lookupQuery) Validate() error {
	if q.ID == "" {
		return pkgerrors.NewValidationError("id is required")
	}
	return nil
}

func TestQueryBus_Ask(t *testing.T) {
	ctx := context.Background()
	bus := NewQueryBus()
	require.NoError(t, Handle(bus, func(ctx context.Context, q lookupQuery) (string, error) {
		if q.ID == "missing" {
			return "", pkgerrors.NewNotFoundError("Canvas")
		}
		return q.ID, nil
	}))

	result, err := AskAs[string](ctx, bus, lookupQuery{ID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", result)

	_, err = bus.Ask(ctx, lookupQuery{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = bus.Ask(ctx, lookupQuery{ID: "missing"})
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, 404, pkgerrors.StatusCode(err))
}

func TestQueryBus_Unregistered(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), lookupQuery{ID: "c1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}
