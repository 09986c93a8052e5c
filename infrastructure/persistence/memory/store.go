// Package memory keeps every repository in process memory. It backs local
// development and the application tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// Store holds users, canvases and canvas children. Records are copied on the
// way in and out so callers cannot mutate stored state.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	users    map[string]*entities.User
	canvases map[string]*entities.Canvas
	notes    map[string]*noteRow
	messages map[string]*messageRow
	pdfs     map[string]*pdfRow
}

type noteRow struct {
	seq  uint64
	note entities.Note
}

type messageRow struct {
	seq     uint64
	message entities.Message
}

type pdfRow struct {
	seq uint64
	pdf entities.PDF
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entities.User),
		canvases: make(map[string]*entities.Canvas),
		notes:    make(map[string]*noteRow),
		messages: make(map[string]*messageRow),
		pdfs:     make(map[string]*pdfRow),
	}
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func childKey(canvasID, id string) string {
	return canvasID + "/" + id
}

// Users returns the user repository view
func (s *Store) Users() *UserRepository { return &UserRepository{s} }

// Canvases returns the canvas repository view
func (s *Store) Canvases() *CanvasRepository { return &CanvasRepository{s} }

// Notes returns the note repository view
func (s *Store) Notes() *NoteRepository { return &NoteRepository{s} }

// Messages returns the message repository view
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s} }

// PDFs returns the PDF repository view
func (s *Store) PDFs() *PDFRepository { return &PDFRepository{s} }

// UserRepository implements ports.UserRepository
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return pkgerrors.NewConflictError("User already exists")
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("User")
}

// CanvasRepository implements ports.CanvasRepository
type CanvasRepository struct{ s *Store }

func (r *CanvasRepository) Save(ctx context.Context, canvas *entities.Canvas) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *canvas
	r.s.canvases[canvas.ID] = &cp
	return nil
}

func (r *CanvasRepository) GetByID(ctx context.Context, id string) (*entities.Canvas, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.canvases[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Canvas")
	}
	cp := *c
	return &cp, nil
}

func (r *CanvasRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Canvas, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.Canvas
	for _, c := range r.s.canvases {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CanvasRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.canvases, id)
	return nil
}

// NoteRepository implements ports.NoteRepository
type NoteRepository struct{ s *Store }

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := childKey(note.CanvasID, note.ID)
	if _, exists := r.s.notes[key]; exists {
		return pkgerrors.NewConflictError("Note already exists")
	}
	r.s.notes[key] = &noteRow{seq: r.s.next(), note: *note}
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.notes[childKey(note.CanvasID, note.ID)]
	if !ok {
		return pkgerrors.NewNotFoundError("Note")
	}
	row.note = *note
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, canvasID, noteID string) (*entities.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.notes[childKey(canvasID, noteID)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Note")
	}
	cp := row.note
	return &cp, nil
}

func (r *NoteRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []*noteRow
	for _, row := range r.s.notes {
		if row.note.CanvasID == canvasID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].note.CreatedAt.Equal(rows[j].note.CreatedAt) {
			return rows[i].note.CreatedAt.Before(rows[j].note.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]*entities.Note, 0, len(rows))
	for _, row := range rows {
		cp := row.note
		out = append(out, &cp)
	}
	return out, nil
}

func (r *NoteRepository) Delete(ctx context.Context, canvasID, noteID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.notes, childKey(canvasID, noteID))
	return nil
}

func (r *NoteRepository) DeleteByCanvas(ctx context.Context, canvasID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for key, row := range r.s.notes {
		if row.note.CanvasID == canvasID {
			delete(r.s.notes, key)
			n++
		}
	}
	return n, nil
}

// MessageRepository implements ports.MessageRepository
type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(ctx context.Context, message *entities.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.messages[childKey(message.CanvasID, message.ID)] = &messageRow{seq: r.s.next(), message: *message}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, canvasID, messageID string) (*entities.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.messages[childKey(canvasID, messageID)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("Message")
	}
	cp := row.message
	return &cp, nil
}

func (r *MessageRepository) ListByBlock(ctx context.Context, canvasID, blockID string) ([]*entities.Message, error) {
	return r.list(func(m *entities.Message) bool {
		return m.CanvasID == canvasID && m.BlockID == blockID
	}), nil
}

func (r *MessageRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Message, error) {
	return r.list(func(m *entities.Message) bool {
		return m.CanvasID == canvasID
	}), nil
}

func (r *MessageRepository) list(match func(*entities.Message) bool) []*entities.Message {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []*messageRow
	for _, row := range r.s.messages {
		if match(&row.message) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].message.CreatedAt.Equal(rows[j].message.CreatedAt) {
			return rows[i].message.CreatedAt.Before(rows[j].message.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]*entities.Message, 0, len(rows))
	for _, row := range rows {
		cp := row.message
		out = append(out, &cp)
	}
	return out
}

func (r *MessageRepository) Delete(ctx context.Context, canvasID, messageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.messages, childKey(canvasID, messageID))
	return nil
}

func (r *MessageRepository) DeleteByBlock(ctx context.Context, canvasID, blockID string) (int, error) {
	return r.deleteWhere(func(m *entities.Message) bool {
		return m.CanvasID == canvasID && m.BlockID == blockID
	}), nil
}

func (r *MessageRepository) DeleteByCanvas(ctx context.Context, canvasID string) (int, error) {
	return r.deleteWhere(func(m *entities.Message) bool {
		return m.CanvasID == canvasID
	}), nil
}

func (r *MessageRepository) deleteWhere(match func(*entities.Message) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for key, row := range r.s.messages {
		if match(&row.message) {
			delete(r.s.messages, key)
			n++
		}
	}
	return n
}

// PDFRepository implements ports.PDFRepository
type PDFRepository struct{ s *Store }

func (r *PDFRepository) Create(ctx context.Context, pdf *entities.PDF) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, row := range r.s.pdfs {
		if row.pdf.CanvasID == pdf.CanvasID && row.pdf.BlockID == pdf.BlockID {
			return pkgerrors.NewConflictError("PDF already exists for block")
		}
	}
	r.s.pdfs[childKey(pdf.CanvasID, pdf.ID)] = &pdfRow{seq: r.s.next(), pdf: *pdf}
	return nil
}

func (r *PDFRepository) GetByBlock(ctx context.Context, canvasID, blockID string) (*entities.PDF, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.pdfs {
		if row.pdf.CanvasID == canvasID && row.pdf.BlockID == blockID {
			cp := row.pdf
			return &cp, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("PDF")
}

func (r *PDFRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.PDF, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []*pdfRow
	for _, row := range r.s.pdfs {
		if row.pdf.CanvasID == canvasID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]*entities.PDF, 0, len(rows))
	for _, row := range rows {
		cp := row.pdf
		out = append(out, &cp)
	}
	return out, nil
}

func (r *PDFRepository) Delete(ctx context.Context, canvasID, pdfID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.pdfs, childKey(canvasID, pdfID))
	return nil
}
