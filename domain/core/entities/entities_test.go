package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Labib591/zyra/domain/core/valueobjects"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

func TestNewUser(t *testing.T) {
	t.Run("defaults name and normalizes email", func(t *testing.T) {
		user, err := NewUser("  Ada@Example.COM ", "", nil)

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, DefaultUserName, user.Name)
		assert.False(t, user.HasPassword())
		assert.NotEmpty(t, user.ID)
	})

	t.Run("requires email", func(t *testing.T) {
		_, err := NewUser(" ", "Ada", nil)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("credential account", func(t *testing.T) {
		hash := "$2a$10$hash"
		user, err := NewUser("ada@example.com", "Ada", &hash)

		require.NoError(t, err)
		assert.True(t, user.HasPassword())
	})
}

func TestNewCanvas_Defaults(t *testing.T) {
	canvas, err := NewCanvas("user-1", "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultCanvasTitle, canvas.Title)
	assert.Equal(t, "[]", string(canvas.Nodes.Bytes()))
	assert.Equal(t, "[]", string(canvas.Edges.Bytes()))
	assert.True(t, canvas.IsOwnedBy("user-1"))
	assert.False(t, canvas.IsOwnedBy("user-2"))
	assert.False(t, canvas.IsOwnedBy(""))
}

func TestCanvas_Apply(t *testing.T) {
	nodes := valueobjects.GraphDocument(`[{"id":"n1"}]`)
	edges := valueobjects.GraphDocument(`[{"id":"e1","source":"n1","target":"c1"}]`)

	t.Run("title only leaves graph untouched", func(t *testing.T) {
		// Arrange
		canvas, err := NewCanvas("user-1", "Old", nodes, edges)
		require.NoError(t, err)
		title := "New"

		// Act
		err = canvas.Apply(CanvasPatch{Title: &title})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "New", canvas.Title)
		assert.True(t, canvas.Nodes.Equal(nodes))
		assert.True(t, canvas.Edges.Equal(edges))
	})

	t.Run("graph only leaves title untouched", func(t *testing.T) {
		canvas, err := NewCanvas("user-1", "Keep", nil, nil)
		require.NoError(t, err)

		require.NoError(t, canvas.Apply(CanvasPatch{Nodes: nodes, Edges: edges}))

		assert.Equal(t, "Keep", canvas.Title)
		assert.True(t, canvas.Nodes.Equal(nodes))
	})

	t.Run("empty patch", func(t *testing.T) {
		canvas, err := NewCanvas("user-1", "Keep", nodes, nil)
		require.NoError(t, err)
		before := canvas.UpdatedAt

		require.NoError(t, canvas.Apply(CanvasPatch{}))

		assert.Equal(t, before, canvas.UpdatedAt)
	})
}

func TestNewMessage_Validation(t *testing.T) {
	_, err := NewMessage("c1", "b1", valueobjects.RoleUser, "   ")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewMessage("c1", "", valueobjects.RoleUser, "hi")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewMessage("c1", "b1", valueobjects.Role("system"), "hi")
	assert.True(t, pkgerrors.IsValidation(err))

	msg, err := NewMessage("c1", "b1", valueobjects.RoleAssistant, "hello")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.RoleAssistant, msg.Role)
}

func TestNewNote(t *testing.T) {
	_, err := NewNote("", "c1", "u1", "x")
	assert.Error(t, err)

	note, err := NewNote("n1", "c1", "u1", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "n1", note.ID)

	note.UpdateContent("<p>bye</p>")
	assert.Equal(t, "<p>bye</p>", note.Content)
}

func TestNewPDF(t *testing.T) {
	pdf := NewPDF("c1", "b1", "doc.pdf", "https://cdn/doc.pdf", "zyra-pdfs/c1_b1_1", 42, "text")

	assert.Equal(t, PDFMimeType, pdf.FileType)
	assert.Equal(t, int64(42), pdf.FileSize)
	assert.Equal(t, int64(10485760), MaxPDFSize)
}
