// Package mocks holds testify mocks for the application ports.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/domain/events"
)

// MockObjectStore is a mock implementation of ports.ObjectStore
type MockObjectStore struct {
	mock.Mock
	Uploaded [][]byte
}

func (m *MockObjectStore) Upload(ctx context.Context, req ports.UploadRequest) (*ports.StoredObject, error) {
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Uploaded = append(m.Uploaded, data)
	}
	args := m.Called(ctx, req)
	if obj := args.Get(0); obj != nil {
		return obj.(*ports.StoredObject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockTextExtractor is a mock implementation of ports.TextExtractor
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// MockChatProvider is a mock implementation of ports.ChatProvider
type MockChatProvider struct {
	mock.Mock
}

func (m *MockChatProvider) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockChatProvider) Name() string {
	return "mock"
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) IncrementCounter(string, map[string]string)         {}
func (NopMetrics) RecordDuration(string, float64, map[string]string) {}
