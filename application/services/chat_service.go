package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// DefaultMaxOutputTokens caps every completion.
const DefaultMaxOutputTokens = 500

const promptInstruction = "Answer to users messages based on the context provided. " +
	"If no context is provided, answer based on the messages."

// ProviderError is returned by ChatProvider implementations when the model API
// answered with an HTTP error status.
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %v", e.Status, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StatusCode returns the upstream HTTP status
func (e *ProviderError) StatusCode() int { return e.Status }

// ChatService turns a conversation plus grounding context into one reply.
type ChatService struct {
	provider  ports.ChatProvider
	metrics   ports.Metrics
	logger    *zap.Logger
	maxTokens int
}

// NewChatService creates a chat service
func NewChatService(provider ports.ChatProvider, metrics ports.Metrics, logger *zap.Logger, maxTokens int) *ChatService {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}
	return &ChatService{
		provider:  provider,
		metrics:   metrics,
		logger:    logger,
		maxTokens: maxTokens,
	}
}

// Reply sends the prompt once. Upstream rate limiting maps to RateLimit,
// every other failure to Upstream.
func (s *ChatService) Reply(ctx context.Context, messages []ports.ChatTurn, contextText string) (string, error) {
	if len(messages) == 0 {
		return "", pkgerrors.NewValidationError("messages are required")
	}
	for _, m := range messages {
		if m.Role != "user" && m.Role != "assistant" {
			return "", pkgerrors.NewValidationError("role must be one of: user assistant")
		}
	}

	prompt := BuildPrompt(messages, contextText)
	start := time.Now()

	reply, err := s.provider.Complete(ctx, ports.CompletionRequest{
		Prompt:    prompt,
		MaxTokens: s.maxTokens,
	})

	tags := map[string]string{"provider": s.provider.Name(), "status": "success"}
	if err != nil {
		tags["status"] = "error"
	}
	s.metrics.IncrementCounter("chat_completions_total", tags)
	s.metrics.RecordDuration("chat_completion_duration_seconds", time.Since(start).Seconds(), tags)

	if err != nil {
		s.logger.Error("Chat completion failed",
			zap.String("provider", s.provider.Name()),
			zap.Int("history_length", len(messages)),
			zap.Error(err),
		)
		var perr *ProviderError
		if errors.As(err, &perr) && perr.Status == http.StatusTooManyRequests {
			return "", pkgerrors.NewRateLimitError("Rate limit exceeded. Please try again later.").WithCause(err)
		}
		return "", pkgerrors.NewUpstreamError(s.provider.Name(), err)
	}

	return reply, nil
}

// BuildPrompt renders the instruction, the context and the role-prefixed
// history into the single prompt sent to the model.
func BuildPrompt(messages []ports.ChatTurn, contextText string) string {
	var sb strings.Builder
	sb.WriteString(promptInstruction)
	sb.WriteString("\nContext: ")
	sb.WriteString(contextText)
	sb.WriteString("\nMessages: ")
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}
