package events

import "time"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() string
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetUserID() string       { return e.UserID }

const (
	TypeCanvasCreated   = "canvas.created"
	TypeCanvasUpdated   = "canvas.updated"
	TypeCanvasDeleted   = "canvas.deleted"
	TypeNoteSaved       = "note.saved"
	TypeNoteDeleted     = "note.deleted"
	TypeMessageAppended = "message.appended"
	TypeMessagesDeleted = "messages.deleted"
	TypePDFUploaded     = "pdf.uploaded"
	TypePDFDeleted      = "pdf.deleted"
	TypeUserRegistered  = "user.registered"
)

func newBase(eventType, aggregateID, userID string) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
	}
}

// CanvasEvent covers canvas lifecycle changes
type CanvasEvent struct {
	BaseEvent
	Title string `json:"title,omitempty"`
}

// NewCanvasEvent creates a canvas lifecycle event
func NewCanvasEvent(eventType, canvasID, userID, title string) CanvasEvent {
	return CanvasEvent{BaseEvent: newBase(eventType, canvasID, userID), Title: title}
}

// CanvasDeleted reports a cascade delete and how much it removed
type CanvasDeleted struct {
	BaseEvent
	NotesDeleted    int `json:"notes_deleted"`
	MessagesDeleted int `json:"messages_deleted"`
	PDFsDeleted     int `json:"pdfs_deleted"`
}

// NewCanvasDeleted creates a CanvasDeleted event
func NewCanvasDeleted(canvasID, userID string, notes, messages, pdfs int) CanvasDeleted {
	return CanvasDeleted{
		BaseEvent:       newBase(TypeCanvasDeleted, canvasID, userID),
		NotesDeleted:    notes,
		MessagesDeleted: messages,
		PDFsDeleted:     pdfs,
	}
}

// BlockEvent is raised for changes to a single block's child records
type BlockEvent struct {
	BaseEvent
	BlockID string `json:"block_id"`
	Count   int    `json:"count,omitempty"`
}

// NewBlockEvent creates a block-level event on canvasID
func NewBlockEvent(eventType, canvasID, blockID, userID string, count int) BlockEvent {
	return BlockEvent{
		BaseEvent: newBase(eventType, canvasID, userID),
		BlockID:   blockID,
		Count:     count,
	}
}

// UserRegistered is raised when an account is created
type UserRegistered struct {
	BaseEvent
	Provider string `json:"provider"`
}

// NewUserRegistered creates a UserRegistered event
func NewUserRegistered(userID, provider string) UserRegistered {
	return UserRegistered{BaseEvent: newBase(TypeUserRegistered, userID, userID), Provider: provider}
}
