package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/events"
	"github.com/Labib591/zyra/infrastructure/persistence/memory"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
	"github.com/Labib591/zyra/tests/mocks"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]ports.ChatTurn{
		{Role: "user", Content: "What is the capital?"},
		{Role: "assistant", Content: "Paris."},
		{Role: "user", Content: "And the population?"},
	}, "Notes about France")

	expected := "Answer to users messages based on the context provided. " +
		"If no context is provided, answer based on the messages.\n" +
		"Context: Notes about France\n" +
		"Messages: user: What is the capital?\n" +
		"assistant: Paris.\n" +
		"user: And the population?"
	assert.Equal(t, expected, prompt)
}

func TestChatService_Reply(t *testing.T) {
	ctx := context.Background()
	turns := []ports.ChatTurn{{Role: "user", Content: "hi"}}

	t.Run("passes prompt and token cap", func(t *testing.T) {
		provider := new(mocks.MockChatProvider)
		provider.On("Complete", mock.Anything, ports.CompletionRequest{
			Prompt:    BuildPrompt(turns, "ctx"),
			MaxTokens: DefaultMaxOutputTokens,
		}).Return("hello", nil)
		svc := NewChatService(provider, mocks.NopMetrics{}, zap.NewNop(), 0)

		reply, err := svc.Reply(ctx, turns, "ctx")

		require.NoError(t, err)
		assert.Equal(t, "hello", reply)
		provider.AssertExpectations(t)
	})

	t.Run("empty history", func(t *testing.T) {
		svc := NewChatService(new(mocks.MockChatProvider), mocks.NopMetrics{}, zap.NewNop(), 0)

		_, err := svc.Reply(ctx, nil, "")

		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := NewChatService(new(mocks.MockChatProvider), mocks.NopMetrics{}, zap.NewNop(), 0)

		_, err := svc.Reply(ctx, []ports.ChatTurn{{Role: "system", Content: "x"}}, "")

		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("upstream rate limit", func(t *testing.T) {
		provider := new(mocks.MockChatProvider)
		provider.On("Complete", mock.Anything, mock.Anything).
			Return("", &ProviderError{Status: http.StatusTooManyRequests, Err: errors.New("quota")})
		svc := NewChatService(provider, mocks.NopMetrics{}, zap.NewNop(), 0)

		_, err := svc.Reply(ctx, turns, "")

		assert.True(t, pkgerrors.IsRateLimit(err))
		assert.Equal(t, http.StatusTooManyRequests, pkgerrors.StatusCode(err))
	})

	t.Run("other upstream failures", func(t *testing.T) {
		provider := new(mocks.MockChatProvider)
		provider.On("Complete", mock.Anything, mock.Anything).
			Return("", &ProviderError{Status: http.StatusUnauthorized, Err: errors.New("bad key")})
		svc := NewChatService(provider, mocks.NopMetrics{}, zap.NewNop(), 0)

		_, err := svc.Reply(ctx, turns, "")

		assert.True(t, pkgerrors.IsUpstream(err))
		assert.Equal(t, http.StatusInternalServerError, pkgerrors.StatusCode(err))
	})
}

func newAuthService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	sessions, err := auth.NewSessionManager(auth.SessionConfig{SecretKey: "test-secret", Issuer: "zyra"})
	require.NoError(t, err)
	store := memory.NewStore()
	publisher := new(mocks.MockEventPublisher)
	publisher.On("PublishBatch", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewAuthService(store.Users(), sessions, publisher, zap.NewNop()), store
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuthService(t)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	user, err := entities.NewUser("ada@example.com", "Ada", &hash)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, user))

	oauthOnly, err := entities.NewUser("bob@example.com", "Bob", nil)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, oauthOnly))

	t.Run("valid credentials", func(t *testing.T) {
		session, err := svc.Login(ctx, "ADA@example.com", "correct horse")

		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(time.Now()))
		assert.Equal(t, user.ID, session.User.ID)
	})

	for name, tc := range map[string]struct{ email, password string }{
		"wrong password": {"ada@example.com", "nope"},
		"unknown email":  {"who@example.com", "correct horse"},
		"oauth account":  {"bob@example.com", "anything"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.email, tc.password)

			require.True(t, pkgerrors.IsUnauthorized(err))
			assert.Contains(t, err.Error(), "Invalid email or password")
		})
	}
}

func TestAuthService_SignInWithGoogle(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuthService(t)
	profile := &auth.GoogleProfile{Subject: "g-1", Email: "Eve@Example.com", Name: "Eve", Picture: "https://img/eve.png"}

	first, err := svc.SignInWithGoogle(ctx, profile)
	require.NoError(t, err)
	second, err := svc.SignInWithGoogle(ctx, profile)
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.False(t, first.User.HasPassword())
	assert.Equal(t, "https://img/eve.png", first.User.Image)

	stored, err := store.Users().GetByEmail(ctx, "eve@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, stored.ID)
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.CurrentUser(context.Background(), "")
	assert.True(t, pkgerrors.IsUnauthorized(err))

	_, err = svc.CurrentUser(context.Background(), "ghost")
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestPublishBestEffort_SwallowsFailure(t *testing.T) {
	publisher := new(mocks.MockEventPublisher)
	publisher.On("PublishBatch", mock.Anything, mock.Anything).Return(errors.New("bus down"))

	assert.NotPanics(t, func() {
		PublishBestEffort(context.Background(), publisher, zap.NewNop(), events.NewUserRegistered("u1", "google"))
	})
	publisher.AssertExpectations(t)
	PublishBestEffort(context.Background(), nil, zap.NewNop(), events.NewUserRegistered("u1", "google"))
}
