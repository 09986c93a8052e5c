package ports

import (
	"context"
	"io"

	"github.com/Labib591/zyra/domain/events"
)

// StoredObject is the reference returned by an object store upload
type StoredObject struct {
	Key string
	URL string
}

// UploadRequest describes a binary to store
type UploadRequest struct {
	Key         string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStore keeps uploaded binaries outside the database
type ObjectStore interface {
	Upload(ctx context.Context, req UploadRequest) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// TextExtractor pulls plain text out of a document
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ChatTurn is one message of the conversation sent to the model
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single non-streamed completion call
type CompletionRequest struct {
	Prompt    string
	MaxTokens int
}

// ChatProvider calls the hosted generative model
type ChatProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Metrics records business counters
type Metrics interface {
	IncrementCounter(name string, tags map[string]string)
	RecordDuration(name string, seconds float64, tags map[string]string)
}
