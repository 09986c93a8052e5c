package workspace

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
)

// Chat failure messages stored in the conversation in place of a reply
const (
	ReplyUnauthorized = "API authentication failed. Please check your API key configuration."
	ReplyRateLimited  = "Rate limit exceeded. Please try again later."
	ReplyServerError  = "Server error. Please try again later."
	ReplyGenericError = "Sorry, I encountered an error. Please try again."
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

var ErrEmptyMessage = errors.New("message cannot be empty")

// ChatAPI is the part of the API a chat block talks to
type ChatAPI interface {
	ListMessages(ctx context.Context, canvasID, blockID string) ([]client.Message, error)
	CreateMessage(ctx context.Context, canvasID, blockID, role, content string) (*client.Message, error)
	Chat(ctx context.Context, messages []client.ChatMessage, contextText string) (string, error)
}

// ChatSession sends messages from chat nodes of the open canvas
type ChatSession struct {
	api      ChatAPI
	store    *Store
	cache    *QueryCache
	inflight *InFlight
	logger   *zap.Logger
}

// NewChatSession creates a chat session over the given store and cache
func NewChatSession(api ChatAPI, store *Store, cache *QueryCache, inflight *InFlight, logger *zap.Logger) *ChatSession {
	if inflight == nil {
		inflight = NewInFlight(DefaultInFlightLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatSession{
		api:      api,
		store:    store,
		cache:    cache,
		inflight: inflight,
		logger:   logger,
	}
}

// Busy reports whether chatNodeID is waiting on the assistant
func (s *ChatSession) Busy(chatNodeID string) bool {
	return s.inflight.Busy(chatNodeID)
}

// Context assembles the text of every note and PDF wired into chatNodeID
func (s *ChatSession) Context(chatNodeID string) string {
	snap := s.store.Snapshot()
	data, ok := s.cache.Get(snap.CanvasID)
	if !ok {
		return ""
	}

	return graph.AssembleContext(snap.Nodes, snap.Edges, chatNodeID, func(n graph.Node) string {
		switch n.Type {
		case graph.NodeNote:
			if note := data.Note(n.ID); note != nil {
				return note.Content
			}
		case graph.NodePDF:
			if pdf := data.PDF(n.ID); pdf != nil {
				return pdf.ExtractedText
			}
		}
		return ""
	})
}

// Send posts text from chatNodeID and stores the assistant's answer. A failed
// completion is stored as an assistant message and is not returned as an
// error; errors mean the conversation itself could not be read or written.
func (s *ChatSession) Send(ctx context.Context, chatNodeID, text string) (*client.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.inflight.TryStart(chatNodeID); err != nil {
		return nil, err
	}
	defer s.inflight.Done(chatNodeID)

	canvasID := s.store.CanvasID()
	contextText := s.Context(chatNodeID)

	history, err := s.api.ListMessages(ctx, canvasID, chatNodeID)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, canvasID, chatNodeID, roleUser, text); err != nil {
		return nil, err
	}

	turns := make([]client.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, client.ChatMessage{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, client.ChatMessage{Role: roleUser, Content: text})

	reply, err := s.api.Chat(ctx, turns, contextText)
	if err != nil {
		s.logger.Warn("Chat request failed",
			zap.String("canvas_id", canvasID),
			zap.String("block_id", chatNodeID),
			zap.Int("status", client.StatusCode(err)),
			zap.Error(err),
		)
		reply = FailureReply(err)
	}

	msg, err := s.api.CreateMessage(ctx, canvasID, chatNodeID, roleAssistant, reply)
	if err != nil {
		return nil, err
	}
	s.appendCached(canvasID, *msg)
	return msg, nil
}

// FailureReply is the conversation text recorded for a failed completion
func FailureReply(err error) string {
	status := client.StatusCode(err)
	switch {
	case status == http.StatusUnauthorized:
		return ReplyUnauthorized
	case status == http.StatusTooManyRequests:
		return ReplyRateLimited
	case status >= http.StatusInternalServerError:
		return ReplyServerError
	default:
		return ReplyGenericError
	}
}

func (s *ChatSession) persist(ctx context.Context, canvasID, blockID, role, content string) error {
	msg, err := s.api.CreateMessage(ctx, canvasID, blockID, role, content)
	if err != nil {
		return err
	}
	s.appendCached(canvasID, *msg)
	return nil
}

func (s *ChatSession) appendCached(canvasID string, msg client.Message) {
	s.cache.Update(canvasID, func(data *client.CanvasData) {
		data.Messages = append(data.Messages, msg)
	})
}
