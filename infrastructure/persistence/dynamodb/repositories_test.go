package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/core/valueobjects"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.CanvasRepository  = (*CanvasRepository)(nil)
	_ ports.NoteRepository    = (*NoteRepository)(nil)
	_ ports.MessageRepository = (*MessageRepository)(nil)
	_ ports.PDFRepository     = (*PDFRepository)(nil)
)

func newTestTable() (*Table, *fakeDynamo) {
	fake := newFakeDynamo()
	return NewTable(fake, "zyra-test", "", zap.NewNop()), fake
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	table, _ := newTestTable()
	users := table.Users()

	hash := "$2a$10$hash"
	u, err := entities.NewUser("Ada@Example.com", "Ada", &hash)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
	assert.Equal(t, hash, *byID.PasswordHash)
	assert.True(t, byID.CreatedAt.Equal(u.CreatedAt))

	byEmail, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	dup, err := entities.NewUser("ada@example.com", "Other", nil)
	require.NoError(t, err)
	err = users.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "User already exists")

	_, err = users.GetByID(ctx, dup.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCanvasRepository(t *testing.T) {
	ctx := context.Background()
	table, _ := newTestTable()
	canvases := table.Canvases()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		c, err := entities.NewCanvas("u1", fmt.Sprintf("c%d", i), nil, nil)
		require.NoError(t, err)
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, canvases.Save(ctx, c))
		ids = append(ids, c.ID)
	}
	other, err := entities.NewCanvas("u2", "theirs", nil, nil)
	require.NoError(t, err)
	require.NoError(t, canvases.Save(ctx, other))

	list, err := canvases.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})

	nodes := valueobjects.GraphDocument(`[{"id":"n1","type":"note"}]`)
	got, err := canvases.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got.Nodes))
	got.Nodes = nodes
	require.NoError(t, canvases.Save(ctx, got))

	got, err = canvases.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, string(nodes), string(got.Nodes))
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, canvases.Delete(ctx, ids[0]))
	_, err = canvases.GetByID(ctx, ids[0])
	assert.True(t, pkgerrors.IsNotFound(err))

	empty, err := canvases.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNoteRepository(t *testing.T) {
	ctx := context.Background()
	table, _ := newTestTable()
	notes := table.Notes()

	n1, _ := entities.NewNote("n1", "c1", "u1", "first")
	n2, _ := entities.NewNote("n2", "c1", "u1", "second")
	n2.CreatedAt = n1.CreatedAt.Add(time.Second)
	require.NoError(t, notes.Create(ctx, n2))
	require.NoError(t, notes.Create(ctx, n1))

	err := notes.Create(ctx, n1)
	assert.True(t, pkgerrors.IsConflict(err))

	n1.UpdateContent("edited")
	require.NoError(t, notes.Update(ctx, n1))
	got, err := notes.GetByID(ctx, "c1", "n1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	ghost, _ := entities.NewNote("ghost", "c1", "u1", "")
	assert.True(t, pkgerrors.IsNotFound(notes.Update(ctx, ghost)))

	list, err := notes.ListByCanvas(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n1", list[0].ID)
	assert.Equal(t, "n2", list[1].ID)

	n, err := notes.DeleteByCanvas(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, err = notes.ListByCanvas(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMessageRepository(t *testing.T) {
	ctx := context.Background()
	table, fake := newTestTable()
	messages := table.Messages()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	add := func(block string, role valueobjects.Role, content string, offset int) *entities.Message {
		m, err := entities.NewMessage("c1", block, role, content)
		require.NoError(t, err)
		m.CreatedAt = base.Add(time.Duration(offset) * time.Second)
		require.NoError(t, messages.Create(ctx, m))
		return m
	}

	q := add("b1", valueobjects.RoleUser, "What is the capital of France?", 0)
	add("b2", valueobjects.RoleUser, "other block", 1)
	a := add("b1", valueobjects.RoleAssistant, "Paris", 2)

	block, err := messages.ListByBlock(ctx, "c1", "b1")
	require.NoError(t, err)
	require.Len(t, block, 2)
	assert.Equal(t, q.ID, block[0].ID)
	assert.Equal(t, a.ID, block[1].ID)
	assert.Equal(t, valueobjects.RoleAssistant, block[1].Role)

	all, err := messages.ListByCanvas(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other block", all[1].Content)

	got, err := messages.GetByID(ctx, "c1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Content)

	require.NoError(t, messages.Delete(ctx, "c1", a.ID))
	_, err = messages.GetByID(ctx, "c1", a.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	n, err := messages.DeleteByBlock(ctx, "c1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for i := 0; i < 30; i++ {
		add("b3", valueobjects.RoleUser, fmt.Sprintf("m%d", i), 10+i)
	}
	fake.batchSize = nil
	n, err = messages.DeleteByCanvas(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 31, n)
	assert.Equal(t, []int{25, 6}, fake.batchSize)
}

func TestPDFRepository(t *testing.T) {
	ctx := context.Background()
	table, _ := newTestTable()
	pdfs := table.PDFs()

	p := entities.NewPDF("c1", "b1", "paper.pdf", "https://cdn/p.pdf", "zyra-pdfs/k1", 1024, "hello")
	require.NoError(t, pdfs.Create(ctx, p))

	again := entities.NewPDF("c1", "b1", "other.pdf", "https://cdn/o.pdf", "zyra-pdfs/k2", 10, "")
	assert.True(t, pkgerrors.IsConflict(pdfs.Create(ctx, again)))

	got, err := pdfs.GetByBlock(ctx, "c1", "b1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "zyra-pdfs/k1", got.StorageKey)
	assert.Equal(t, int64(1024), got.FileSize)
	assert.Equal(t, entities.PDFMimeType, got.FileType)

	require.NoError(t, pdfs.Delete(ctx, "c1", p.ID))
	_, err = pdfs.GetByBlock(ctx, "c1", "b1")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestTable_TranslatesErrors(t *testing.T) {
	ctx := context.Background()
	table, fake := newTestTable()

	fake.err = &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}
	_, err := table.Canvases().GetByID(ctx, "c1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimit(err))

	fake.err = errors.New("connection reset")
	_, err = table.Notes().ListByCanvas(ctx, "c1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	assert.Equal(t, 500, pkgerrors.StatusCode(err))
}
