package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
)

// BlockAPI is the part of the API that writes the records behind blocks
type BlockAPI interface {
	CreateNote(ctx context.Context, canvasID, noteID, content string) (*client.Note, error)
	UpdateNote(ctx context.Context, canvasID, noteID, content string) (*client.Note, error)
	DeleteNote(ctx context.Context, canvasID, noteID string) error
	DeleteBlockMessages(ctx context.Context, canvasID, blockID string) (*client.MessagesDeleted, error)
	UploadPDF(ctx context.Context, canvasID, blockID, fileName string, content io.Reader) (*client.PDF, error)
	DeletePDF(ctx context.Context, canvasID, blockID string) error
}

var ErrNodeNotFound = errors.New("node not found on canvas")

// SaveNote writes the content of note block noteID. The note is created on
// its first save. The cached record shows the new content while the request
// runs and is rolled back if it fails.
func (w *Workspace) SaveNote(ctx context.Context, noteID, content string) (*client.Note, error) {
	canvasID := w.Store.CanvasID()
	_, exists := w.cachedNote(noteID)

	var saved *client.Note
	err := w.Cache.Mutate(ctx, canvasID,
		func(d *client.CanvasData) {
			now := time.Now().UTC()
			if n := d.Note(noteID); n != nil {
				n.Content, n.UpdatedAt = content, now
				return
			}
			d.Notes = append(d.Notes, client.Note{
				ID: noteID, CanvasID: canvasID, Content: content, CreatedAt: now, UpdatedAt: now,
			})
		},
		func(ctx context.Context) error {
			var err error
			if exists {
				saved, err = w.api.UpdateNote(ctx, canvasID, noteID, content)
				if client.StatusCode(err) != http.StatusNotFound {
					return err
				}
			}
			saved, err = w.api.CreateNote(ctx, canvasID, noteID, content)
			if client.StatusCode(err) == http.StatusConflict {
				saved, err = w.api.UpdateNote(ctx, canvasID, noteID, content)
			}
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteNote removes the note of block noteID
func (w *Workspace) DeleteNote(ctx context.Context, noteID string) error {
	canvasID := w.Store.CanvasID()
	return w.Cache.Mutate(ctx, canvasID,
		func(d *client.CanvasData) {
			d.Notes = filter(d.Notes, func(n client.Note) bool { return n.ID != noteID })
		},
		func(ctx context.Context) error { return w.api.DeleteNote(ctx, canvasID, noteID) },
	)
}

// ClearMessages deletes the conversation of chat block blockID
func (w *Workspace) ClearMessages(ctx context.Context, blockID string) (int, error) {
	canvasID := w.Store.CanvasID()
	deleted := 0
	err := w.Cache.Mutate(ctx, canvasID,
		func(d *client.CanvasData) {
			d.Messages = filter(d.Messages, func(m client.Message) bool { return m.BlockID != blockID })
		},
		func(ctx context.Context) error {
			res, err := w.api.DeleteBlockMessages(ctx, canvasID, blockID)
			if err == nil && res != nil {
				deleted = res.DeletedCount
			}
			return err
		},
	)
	return deleted, err
}

// UploadPDF stores content as the document of PDF block blockID, replacing
// any previous one.
func (w *Workspace) UploadPDF(ctx context.Context, blockID, fileName string, content io.Reader) (*client.PDF, error) {
	canvasID := w.Store.CanvasID()
	var pdf *client.PDF
	err := w.Cache.Mutate(ctx, canvasID, nil, func(ctx context.Context) error {
		var err error
		pdf, err = w.api.UploadPDF(ctx, canvasID, blockID, fileName, content)
		if err != nil {
			return err
		}
		w.Cache.Update(canvasID, func(d *client.CanvasData) {
			d.PDFs = append(filter(d.PDFs, func(p client.PDF) bool { return p.BlockID != blockID }), *pdf)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// DeletePDF removes the document of PDF block blockID
func (w *Workspace) DeletePDF(ctx context.Context, blockID string) error {
	canvasID := w.Store.CanvasID()
	return w.Cache.Mutate(ctx, canvasID,
		func(d *client.CanvasData) {
			d.PDFs = filter(d.PDFs, func(p client.PDF) bool { return p.BlockID != blockID })
		},
		func(ctx context.Context) error { return w.api.DeletePDF(ctx, canvasID, blockID) },
	)
}

// RemoveBlock deletes the record behind node id (its note, conversation or
// PDF) and then the node with its edges. A record the server never had is
// not an error. When the record cannot be deleted the node is kept.
func (w *Workspace) RemoveBlock(ctx context.Context, id string) error {
	node := graph.FindNode(w.Store.Snapshot().Nodes, id)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	var err error
	switch node.Type {
	case graph.NodeNote:
		err = w.DeleteNote(ctx, id)
	case graph.NodeChat:
		_, err = w.ClearMessages(ctx, id)
		if err == nil {
			w.inflight.Done(id)
		}
	case graph.NodePDF:
		err = w.DeletePDF(ctx, id)
	}
	if err != nil && client.StatusCode(err) != http.StatusNotFound {
		return fmt.Errorf("remove %s block %s: %w", node.Type, id, err)
	}

	w.Store.DeleteNode(id)
	return nil
}

func (w *Workspace) cachedNote(noteID string) (*client.Note, bool) {
	data, ok := w.Data()
	if !ok {
		return nil, false
	}
	n := data.Note(noteID)
	return n, n != nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
