// Package llm adapts hosted chat models to ports.ChatProvider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
)

// ErrEmptyCompletion is returned when the model answered without a choice
var ErrEmptyCompletion = errors.New("model returned no choices")

// Config configures the Gemini provider
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Breaker settings
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// GeminiProvider calls Gemini through its OpenAI compatible endpoint. Calls
// go through a circuit breaker and are never retried.
type GeminiProvider struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewGeminiProvider creates a provider
func NewGeminiProvider(cfg Config, logger *zap.Logger) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Client errors say nothing about provider health.
		IsSuccessful: func(err error) bool {
			var perr *services.ProviderError
			if errors.As(err, &perr) {
				return perr.Status < 500 && perr.Status != http.StatusTooManyRequests
			}
			return err == nil
		},
	})

	return &GeminiProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		breaker: breaker,
		logger:  logger,
	}
}

// Name identifies the provider in logs and metrics
func (p *GeminiProvider) Name() string { return "gemini" }

// Complete sends the prompt as a single user message
func (p *GeminiProvider) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
			},
			MaxTokens: req.MaxTokens,
		})
		if err != nil {
			return nil, classify(err)
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyCompletion
		}
		p.logger.Debug("Completion received",
			zap.String("model", p.model),
			zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
			zap.Int("total_tokens", resp.Usage.TotalTokens),
		)
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("gemini unavailable: %w", err)
		}
		return "", err
	}
	return result.(string), nil
}

// classify lifts the HTTP status out of the client's error types
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &services.ProviderError{Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &services.ProviderError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
