package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Labib591/zyra/pkg/client"
)

// fakeAPI is an in-memory stand-in for the HTTP client
type fakeAPI struct {
	mu        sync.Mutex
	canvas    client.CanvasData
	patches   []client.CanvasPatch
	updateErr error
	fetchErr  error
	fetches   int
	blockErr  error

	chatReply string
	chatErr   error
	chatGate  map[string]chan struct{}
	chatCalls [][]client.ChatMessage
	contexts  []string
	nextID    int
}

func newFakeAPI(canvasID string) *fakeAPI {
	return &fakeAPI{
		canvas: client.CanvasData{
			Canvas: client.Canvas{
				ID:    canvasID,
				Title: "Untitled",
				Nodes: json.RawMessage(`[]`),
				Edges: json.RawMessage(`[]`),
			},
			Notes:    []client.Note{},
			Messages: []client.Message{},
			PDFs:     []client.PDF{},
		},
		chatReply: "ok",
		chatGate:  make(map[string]chan struct{}),
	}
}

func (f *fakeAPI) GetCanvas(ctx context.Context, canvasID string) (*client.CanvasData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.canvas.Clone(), nil
}

func (f *fakeAPI) UpdateCanvas(ctx context.Context, canvasID string, patch client.CanvasPatch) (*client.Canvas, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if patch.Title != nil {
		f.canvas.Title = *patch.Title
	}
	if patch.Nodes != nil {
		f.canvas.Nodes = patch.Nodes
	}
	if patch.Edges != nil {
		f.canvas.Edges = patch.Edges
	}
	out := f.canvas.Canvas
	return &out, nil
}

func (f *fakeAPI) ListMessages(ctx context.Context, canvasID, blockID string) ([]client.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []client.Message
	for _, m := range f.canvas.Messages {
		if m.BlockID == blockID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateMessage(ctx context.Context, canvasID, blockID, role, content string) (*client.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := client.Message{
		ID:        fmt.Sprintf("m%d", f.nextID),
		CanvasID:  canvasID,
		BlockID:   blockID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.canvas.Messages = append(f.canvas.Messages, msg)
	return &msg, nil
}

func (f *fakeAPI) Chat(ctx context.Context, messages []client.ChatMessage, contextText string) (string, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, messages)
	f.contexts = append(f.contexts, contextText)
	gate := f.chatGate[messages[len(messages)-1].Content]
	reply, err := f.chatReply, f.chatErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

func (f *fakeAPI) patchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patches)
}

func (f *fakeAPI) lastPatch() client.CanvasPatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patches[len(f.patches)-1]
}

func (f *fakeAPI) messages() []client.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.Message(nil), f.canvas.Messages...)
}

func (f *fakeAPI) CreateNote(ctx context.Context, canvasID, noteID, content string) (*client.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	if f.canvas.Note(noteID) != nil {
		return nil, &client.APIError{StatusCode: http.StatusConflict}
	}
	note := client.Note{ID: noteID, CanvasID: canvasID, Content: content, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.canvas.Notes = append(f.canvas.Notes, note)
	return &note, nil
}

func (f *fakeAPI) UpdateNote(ctx context.Context, canvasID, noteID, content string) (*client.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	note := f.canvas.Note(noteID)
	if note == nil {
		return nil, &client.APIError{StatusCode: http.StatusNotFound}
	}
	note.Content, note.UpdatedAt = content, time.Now()
	out := *note
	return &out, nil
}

func (f *fakeAPI) DeleteNote(ctx context.Context, canvasID, noteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockErr != nil {
		return f.blockErr
	}
	if f.canvas.Note(noteID) == nil {
		return &client.APIError{StatusCode: http.StatusNotFound}
	}
	f.canvas.Notes = filter(f.canvas.Notes, func(n client.Note) bool { return n.ID != noteID })
	return nil
}

func (f *fakeAPI) DeleteBlockMessages(ctx context.Context, canvasID, blockID string) (*client.MessagesDeleted, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	before := len(f.canvas.Messages)
	f.canvas.Messages = filter(f.canvas.Messages, func(m client.Message) bool { return m.BlockID != blockID })
	return &client.MessagesDeleted{Success: true, DeletedCount: before - len(f.canvas.Messages)}, nil
}

func (f *fakeAPI) UploadPDF(ctx context.Context, canvasID, blockID, fileName string, content io.Reader) (*client.PDF, error) {
	body, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	f.nextID++
	pdf := client.PDF{
		ID:            fmt.Sprintf("pdf%d", f.nextID),
		CanvasID:      canvasID,
		BlockID:       blockID,
		FileName:      fileName,
		FileSize:      int64(len(body)),
		ExtractedText: string(body),
	}
	f.canvas.PDFs = append(filter(f.canvas.PDFs, func(p client.PDF) bool { return p.BlockID != blockID }), pdf)
	return &pdf, nil
}

func (f *fakeAPI) DeletePDF(ctx context.Context, canvasID, blockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockErr != nil {
		return f.blockErr
	}
	if f.canvas.PDF(blockID) == nil {
		return &client.APIError{StatusCode: http.StatusNotFound}
	}
	f.canvas.PDFs = filter(f.canvas.PDFs, func(p client.PDF) bool { return p.BlockID != blockID })
	return nil
}
