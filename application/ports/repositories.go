package ports

import (
	"context"

	"github.com/Labib591/zyra/domain/core/entities"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create stores a new user. A duplicate email returns a conflict error.
	Create(ctx context.Context, user *entities.User) error

	// GetByID returns a not found error when the user does not exist
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail looks up a user by normalized email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// CanvasRepository defines the interface for canvas persistence
type CanvasRepository interface {
	// Save creates or fully replaces a canvas
	Save(ctx context.Context, canvas *entities.Canvas) error

	// GetByID returns a not found error when the canvas does not exist
	GetByID(ctx context.Context, id string) (*entities.Canvas, error)

	// ListByUser returns the user's canvases, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Canvas, error)

	// Delete removes the canvas record only
	Delete(ctx context.Context, id string) error
}

// NoteRepository defines the interface for note persistence
type NoteRepository interface {
	// Create returns a conflict error when a note with the same ID exists
	Create(ctx context.Context, note *entities.Note) error
	Update(ctx context.Context, note *entities.Note) error
	GetByID(ctx context.Context, canvasID, noteID string) (*entities.Note, error)

	// ListByCanvas returns notes oldest first
	ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Note, error)
	Delete(ctx context.Context, canvasID, noteID string) error
	DeleteByCanvas(ctx context.Context, canvasID string) (int, error)
}

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	Create(ctx context.Context, message *entities.Message) error
	GetByID(ctx context.Context, canvasID, messageID string) (*entities.Message, error)

	// ListByBlock returns the conversation of one chat block, oldest first
	ListByBlock(ctx context.Context, canvasID, blockID string) ([]*entities.Message, error)

	// ListByCanvas returns every message on the canvas, oldest first
	ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Message, error)
	Delete(ctx context.Context, canvasID, messageID string) error
	DeleteByBlock(ctx context.Context, canvasID, blockID string) (int, error)
	DeleteByCanvas(ctx context.Context, canvasID string) (int, error)
}

// PDFRepository defines the interface for PDF reference persistence
type PDFRepository interface {
	Create(ctx context.Context, pdf *entities.PDF) error
	GetByBlock(ctx context.Context, canvasID, blockID string) (*entities.PDF, error)

	// ListByCanvas returns PDFs oldest first
	ListByCanvas(ctx context.Context, canvasID string) ([]*entities.PDF, error)
	Delete(ctx context.Context, canvasID, pdfID string) error
}
