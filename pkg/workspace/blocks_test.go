package workspace

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
	"github.com/Labib591/zyra/tests/testserver"
)

var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func wireNoteToChat(t *testing.T, ws *Workspace, source graph.Node) {
	t.Helper()
	ws.Store.SetNodes(graph.Nodes(source, graph.Node{ID: "c1", Type: graph.NodeChat}))
	ws.Store.SetEdges(graph.Edges(graph.Edge{ID: "e1", Source: source.ID, Target: "c1"}))
}

func TestWorkspace_SaveNoteFeedsChatContext(t *testing.T) {
	api := newFakeAPI("canvas-1")
	ws := openFake(t, api)
	ctx := context.Background()
	wireNoteToChat(t, ws, graph.Node{ID: "n1", Type: graph.NodeNote})

	_, err := ws.SaveNote(ctx, "n1", "Paris is the capital of France")
	require.NoError(t, err)
	_, err = ws.Chat.Send(ctx, "c1", "What is the capital of France?")
	require.NoError(t, err)

	require.Len(t, api.contexts, 1)
	assert.Equal(t, "Paris is the capital of France", api.contexts[0])
	assert.Equal(t, 0, api.patchCount())
}

func TestWorkspace_SaveNote(t *testing.T) {
	ctx := context.Background()

	t.Run("second save updates", func(t *testing.T) {
		api := newFakeAPI("canvas-1")
		ws := openFake(t, api)

		_, err := ws.SaveNote(ctx, "n1", "draft")
		require.NoError(t, err)
		saved, err := ws.SaveNote(ctx, "n1", "final")
		require.NoError(t, err)

		assert.Equal(t, "final", saved.Content)
		data, _ := ws.Data()
		require.Len(t, data.Notes, 1)
		assert.Equal(t, "final", data.Notes[0].Content)
	})

	t.Run("failure rolls back the cache", func(t *testing.T) {
		api := newFakeAPI("canvas-1")
		ws := openFake(t, api)
		api.blockErr = &client.APIError{StatusCode: http.StatusInternalServerError}

		_, err := ws.SaveNote(ctx, "n1", "lost")
		require.Error(t, err)

		data, _ := ws.Data()
		assert.Empty(t, data.Notes)
	})

	t.Run("delete drops it from context", func(t *testing.T) {
		api := newFakeAPI("canvas-1")
		ws := openFake(t, api)
		wireNoteToChat(t, ws, graph.Node{ID: "n1", Type: graph.NodeNote})
		_, err := ws.SaveNote(ctx, "n1", "gone soon")
		require.NoError(t, err)

		require.NoError(t, ws.DeleteNote(ctx, "n1"))

		assert.Equal(t, "", ws.Chat.Context("c1"))
	})
}

func TestWorkspace_UploadAndDeletePDF(t *testing.T) {
	api := newFakeAPI("canvas-1")
	ws := openFake(t, api)
	ctx := context.Background()
	wireNoteToChat(t, ws, graph.Node{ID: "p1", Type: graph.NodePDF})

	_, err := ws.UploadPDF(ctx, "p1", "a.pdf", strings.NewReader("first body"))
	require.NoError(t, err)
	pdf, err := ws.UploadPDF(ctx, "p1", "b.pdf", strings.NewReader("second body"))
	require.NoError(t, err)

	assert.Equal(t, "b.pdf", pdf.FileName)
	assert.Equal(t, "second body", ws.Chat.Context("c1"))
	data, _ := ws.Data()
	assert.Len(t, data.PDFs, 1)

	require.NoError(t, ws.DeletePDF(ctx, "p1"))
	assert.Equal(t, "", ws.Chat.Context("c1"))
}

func TestWorkspace_RemoveBlock(t *testing.T) {
	srv := testserver.New(t)
	ctx := context.Background()
	api := client.New(srv.URL, client.WithToken(srv.Token(t, "u1")))
	srv.Objects.On("Upload", mock.Anything, mock.Anything).
		Return(&ports.StoredObject{Key: "zyra/pdfs/p1", URL: "https://files.example.com/p1.pdf"}, nil).Once()

	canvas, err := api.CreateCanvas(ctx, client.CanvasInput{Title: "Cleanup"})
	require.NoError(t, err)
	_, err = api.CreateNote(ctx, canvas.ID, "n1", "a note")
	require.NoError(t, err)
	_, err = api.CreateMessage(ctx, canvas.ID, "c1", "user", "hello")
	require.NoError(t, err)
	_, err = api.UploadPDF(ctx, canvas.ID, "p1", "p1.pdf", bytes.NewReader(minimalPDF))
	require.NoError(t, err)

	ws, err := Open(ctx, api, canvas.ID, nil, WithAutosaveDelay(time.Hour))
	require.NoError(t, err)
	ws.Store.SetNodes(graph.Nodes(
		graph.Node{ID: "n1", Type: graph.NodeNote},
		graph.Node{ID: "c1", Type: graph.NodeChat},
		graph.Node{ID: "p1", Type: graph.NodePDF},
		graph.Node{ID: "n2", Type: graph.NodeNote},
	))
	ws.Store.SetEdges(graph.Edges(
		graph.Edge{ID: "e1", Source: "n1", Target: "c1"},
		graph.Edge{ID: "e2", Source: "p1", Target: "c1"},
	))
	require.NoError(t, ws.inflight.TryStart("c1"))

	for _, id := range []string{"n1", "c1", "p1", "n2"} {
		require.NoError(t, ws.RemoveBlock(ctx, id), id)
	}
	assert.ErrorIs(t, ws.RemoveBlock(ctx, "n1"), ErrNodeNotFound)
	assert.False(t, ws.Chat.Busy("c1"))
	ws.Close()

	notes, err := api.ListNotes(ctx, canvas.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
	messages, err := api.ListMessages(ctx, canvas.ID, "")
	require.NoError(t, err)
	assert.Empty(t, messages)

	data, err := api.GetCanvas(ctx, canvas.ID)
	require.NoError(t, err)
	assert.Empty(t, data.PDFs)
	assert.JSONEq(t, `[]`, string(data.Nodes))
	assert.JSONEq(t, `[]`, string(data.Edges))
}

func TestWorkspace_RemoveBlock_KeepsNodeOnFailure(t *testing.T) {
	api := newFakeAPI("canvas-1")
	ws := openFake(t, api)
	ctx := context.Background()
	wireNoteToChat(t, ws, graph.Node{ID: "n1", Type: graph.NodeNote})
	_, err := ws.SaveNote(ctx, "n1", "keep me")
	require.NoError(t, err)
	api.blockErr = &client.APIError{StatusCode: http.StatusBadGateway}

	err = ws.RemoveBlock(ctx, "n1")

	require.Error(t, err)
	assert.NotNil(t, graph.FindNode(ws.Store.Snapshot().Nodes, "n1"))
	assert.Equal(t, "keep me", ws.Chat.Context("c1"))
}
