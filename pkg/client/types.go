package client

import (
	"encoding/json"
	"time"
)

// User is the public view of an account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned by a successful sign-in
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// Canvas is a stored graph. Nodes and Edges are kept byte-for-byte.
type Canvas struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	UserID    string          `json:"userId"`
	Nodes     json.RawMessage `json:"nodes"`
	Edges     json.RawMessage `json:"edges"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Note is the text behind a note node
type Note struct {
	ID        string    `json:"id"`
	CanvasID  string    `json:"canvasId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is one turn of a chat block conversation
type Message struct {
	ID        string    `json:"id"`
	CanvasID  string    `json:"canvasId"`
	BlockID   string    `json:"blockId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// PDF is an uploaded document attached to a pdf node
type PDF struct {
	ID            string    `json:"id"`
	CanvasID      string    `json:"canvasId"`
	BlockID       string    `json:"blockId"`
	FileName      string    `json:"fileName"`
	FileURL       string    `json:"fileUrl"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	ExtractedText string    `json:"extractedText"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CanvasData is a canvas together with everything attached to it
type CanvasData struct {
	Canvas
	Notes    []Note    `json:"notes"`
	Messages []Message `json:"messages"`
	PDFs     []PDF     `json:"pdfs"`
}

// Clone returns a deep copy safe to mutate
func (d *CanvasData) Clone() *CanvasData {
	if d == nil {
		return nil
	}
	out := *d
	out.Nodes = append(json.RawMessage(nil), d.Nodes...)
	out.Edges = append(json.RawMessage(nil), d.Edges...)
	out.Notes = append([]Note(nil), d.Notes...)
	out.Messages = append([]Message(nil), d.Messages...)
	out.PDFs = append([]PDF(nil), d.PDFs...)
	return &out
}

// Note returns the note with id, or nil
func (d *CanvasData) Note(id string) *Note {
	for i := range d.Notes {
		if d.Notes[i].ID == id {
			return &d.Notes[i]
		}
	}
	return nil
}

// PDF returns the document attached to blockID, or nil
func (d *CanvasData) PDF(blockID string) *PDF {
	for i := range d.PDFs {
		if d.PDFs[i].BlockID == blockID {
			return &d.PDFs[i]
		}
	}
	return nil
}

// CanvasInput creates a canvas. Zero fields take server defaults.
type CanvasInput struct {
	Title string          `json:"title,omitempty"`
	Nodes json.RawMessage `json:"nodes,omitempty"`
	Edges json.RawMessage `json:"edges,omitempty"`
}

// CanvasPatch updates a canvas. Omitted fields are left as stored.
type CanvasPatch struct {
	Title *string         `json:"title,omitempty"`
	Nodes json.RawMessage `json:"nodes,omitempty"`
	Edges json.RawMessage `json:"edges,omitempty"`
}

// ChatMessage is one turn sent to the assistant
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesDeleted reports how many messages a delete removed
type MessagesDeleted struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}
