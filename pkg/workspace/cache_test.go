package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Labib591/zyra/pkg/client"
)

func TestQueryCache_MutateAppliesOptimisticThenRefetches(t *testing.T) {
	api := newFakeAPI("c1")
	cache := NewQueryCache(api.GetCanvas, nil)
	require.NoError(t, cache.Refetch(context.Background(), "c1"))

	title := "Renamed"
	err := cache.Mutate(context.Background(), "c1",
		func(d *client.CanvasData) { d.Title = title },
		func(ctx context.Context) error {
			cached, _ := cache.Get("c1")
			assert.Equal(t, "Renamed", cached.Title)
			_, err := api.UpdateCanvas(ctx, "c1", client.CanvasPatch{Title: &title})
			return err
		},
	)

	require.NoError(t, err)
	got, ok := cache.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 2, api.fetches)
}

func TestQueryCache_MutateRollsBackOnFailure(t *testing.T) {
	api := newFakeAPI("c1")
	cache := NewQueryCache(api.GetCanvas, nil)
	require.NoError(t, cache.Refetch(context.Background(), "c1"))
	api.fetchErr = errors.New("offline")
	failure := errors.New("boom")

	err := cache.Mutate(context.Background(), "c1",
		func(d *client.CanvasData) { d.Title = "optimistic" },
		func(context.Context) error { return failure },
	)

	assert.ErrorIs(t, err, failure)
	got, _ := cache.Get("c1")
	assert.Equal(t, "Untitled", got.Title)
}

func TestQueryCache_MutateWithoutEntry(t *testing.T) {
	api := newFakeAPI("c1")
	api.fetchErr = errors.New("offline")
	cache := NewQueryCache(api.GetCanvas, nil)

	err := cache.Mutate(context.Background(), "c1",
		func(d *client.CanvasData) { d.Title = "never" },
		func(context.Context) error { return errors.New("boom") },
	)

	assert.Error(t, err)
	_, ok := cache.Get("c1")
	assert.False(t, ok)
}

func TestQueryCache_MutateCancelsInFlightRefetch(t *testing.T) {
	started := make(chan struct{})
	calls := 0
	fetch := func(ctx context.Context, key string) (*client.CanvasData, error) {
		calls++
		if calls == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &client.CanvasData{Canvas: client.Canvas{ID: key, Title: "fresh"}}, nil
	}
	cache := NewQueryCache(fetch, nil)
	cache.Set("c1", &client.CanvasData{Canvas: client.Canvas{ID: "c1", Title: "stale"}})

	done := make(chan error, 1)
	go func() { done <- cache.Refetch(context.Background(), "c1") }()
	<-started

	err := cache.Mutate(context.Background(), "c1", nil, func(context.Context) error { return nil })
	require.NoError(t, err)

	assert.ErrorIs(t, <-done, context.Canceled)
	got, _ := cache.Get("c1")
	assert.Equal(t, "fresh", got.Title)
}

func TestQueryCache_UpdateAndInvalidate(t *testing.T) {
	cache := NewQueryCache(nil, nil)

	assert.False(t, cache.Update("c1", func(*client.CanvasData) {}))

	cache.Set("c1", &client.CanvasData{Canvas: client.Canvas{ID: "c1"}})
	assert.True(t, cache.Update("c1", func(d *client.CanvasData) {
		d.Messages = append(d.Messages, client.Message{ID: "m1"})
	}))
	got, _ := cache.Get("c1")
	assert.Len(t, got.Messages, 1)

	got.Messages[0].ID = "mutated"
	again, _ := cache.Get("c1")
	assert.Equal(t, "m1", again.Messages[0].ID)

	cache.Invalidate("c1")
	_, ok := cache.Get("c1")
	assert.False(t, ok)
}
