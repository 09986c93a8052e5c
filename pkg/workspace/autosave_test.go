package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
	"github.com/Labib591/zyra/tests/testserver"
)

const testDelay = 10 * time.Millisecond

func TestAutosaver_WaitsForInitialization(t *testing.T) {
	api := newFakeAPI("c1")
	store := NewStore()
	cache := NewQueryCache(api.GetCanvas, nil)
	saver := NewAutosaver(store, cache, api, nil, WithAutosaveDelay(testDelay))
	saver.Start(context.Background())
	defer saver.Close()

	store.Load("c1", nil, nil)
	store.SetNodes(graph.Nodes(graph.Node{ID: "early"}))

	assert.False(t, saver.Initialized())
	assert.False(t, saver.Pending())
	assert.Never(t, func() bool { return api.patchCount() > 0 }, 5*testDelay, testDelay)

	saver.MarkInitialized()
	store.SetNodes(graph.Nodes(graph.Node{ID: "later"}))
	assert.Eventually(t, func() bool { return api.patchCount() == 1 }, time.Second, testDelay)
}

func TestAutosaver_DebouncesToLatestGraph(t *testing.T) {
	api := newFakeAPI("c1")
	ws, err := Open(context.Background(), api, "c1", nil, WithAutosaveDelay(testDelay))
	require.NoError(t, err)
	defer ws.Close()

	// hydration alone never saves
	assert.Never(t, func() bool { return api.patchCount() > 0 }, 5*testDelay, testDelay)

	ws.Store.SetNodes(graph.Nodes(graph.Node{ID: "n1", Type: graph.NodeNote}))
	ws.Store.SetNodes(graph.NodesFunc(func(prev []graph.Node) []graph.Node {
		return append(prev, graph.Node{ID: "c1", Type: graph.NodeChat})
	}))
	ws.Store.SetEdges(graph.Edges(graph.Edge{ID: "e1", Source: "n1", Target: "c1"}))

	require.Eventually(t, func() bool { return api.patchCount() == 1 }, time.Second, testDelay)
	time.Sleep(5 * testDelay)
	assert.Equal(t, 1, api.patchCount())

	patch := api.lastPatch()
	assert.Nil(t, patch.Title)
	nodes, err := graph.DecodeNodes(patch.Nodes)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	edges, err := graph.DecodeEdges(patch.Edges)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	data, ok := ws.Data()
	require.True(t, ok)
	assert.JSONEq(t, string(patch.Nodes), string(data.Nodes))
}

func TestAutosaver_FailureRestoresCache(t *testing.T) {
	api := newFakeAPI("c1")
	saved := make(chan error, 1)
	ws, err := Open(context.Background(), api, "c1", nil,
		WithAutosaveDelay(time.Hour),
		WithSaveHook(func(_ string, err error) { saved <- err }),
	)
	require.NoError(t, err)
	defer ws.Close()

	api.updateErr = &client.APIError{StatusCode: 500}
	api.fetchErr = errors.New("offline")

	ws.Store.SetNodes(graph.Nodes(graph.Node{ID: "n1"}))
	require.True(t, ws.Autosave.Pending())
	require.True(t, ws.Autosave.Flush())

	assert.Error(t, <-saved)
	data, _ := ws.Data()
	assert.JSONEq(t, `[]`, string(data.Nodes))
}

func TestAutosaver_CloseFlushesPendingEdit(t *testing.T) {
	api := newFakeAPI("c1")
	ws, err := Open(context.Background(), api, "c1", nil, WithAutosaveDelay(time.Hour))
	require.NoError(t, err)

	ws.Store.SetNodes(graph.Nodes(graph.Node{ID: "n1"}))
	ws.Close()

	assert.Equal(t, 1, api.patchCount())
}

func TestAutosave_IsIdempotent(t *testing.T) {
	srv := testserver.New(t)
	ctx := context.Background()
	api := client.New(srv.URL, client.WithToken(srv.Token(t, "u1")))

	canvas, err := api.CreateCanvas(ctx, client.CanvasInput{Title: "Trip"})
	require.NoError(t, err)

	ws, err := Open(ctx, api, canvas.ID, nil, WithAutosaveDelay(time.Hour))
	require.NoError(t, err)
	defer ws.Close()

	nodes := []graph.Node{
		{ID: "n1", Type: graph.NodeNote, Position: graph.Position{X: 10, Y: 20}, Data: json.RawMessage(`{"label":"a"}`)},
		{ID: "c1", Type: graph.NodeChat},
	}
	edges := []graph.Edge{{ID: "e1", Source: "n1", Target: "c1"}}

	ws.Store.SetNodes(graph.Nodes(nodes...))
	ws.Store.SetEdges(graph.Edges(edges...))
	require.True(t, ws.Autosave.Flush())
	first, err := api.GetCanvas(ctx, canvas.ID)
	require.NoError(t, err)

	ws.Store.SetNodes(graph.Nodes(nodes...))
	require.True(t, ws.Autosave.Flush())
	second, err := api.GetCanvas(ctx, canvas.ID)
	require.NoError(t, err)

	assert.Equal(t, string(first.Nodes), string(second.Nodes))
	assert.Equal(t, string(first.Edges), string(second.Edges))
	assert.Equal(t, "Trip", second.Title)

	stored, err := graph.DecodeNodes(second.Nodes)
	require.NoError(t, err)
	assert.Equal(t, nodes, stored)
}
