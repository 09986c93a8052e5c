// Package testserver runs the full API stack on an in-memory store for
// client-side tests.
package testserver

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/infrastructure/di"
	"github.com/Labib591/zyra/infrastructure/messaging"
	"github.com/Labib591/zyra/infrastructure/persistence/memory"
	"github.com/Labib591/zyra/interfaces/http/rest"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
	"github.com/Labib591/zyra/tests/mocks"
)

// Server is a running API with its collaborators exposed for assertions
type Server struct {
	*httptest.Server
	Store    *memory.Store
	Sessions *auth.SessionManager
	Objects  *mocks.MockObjectStore
	Provider *mocks.MockChatProvider
}

// New starts a server that is closed when the test ends. Object deletes and
// text extraction always succeed; chat completions must be stubbed on Provider.
func New(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	repos := &di.Repositories{
		Users:    store.Users(),
		Canvases: store.Canvases(),
		Notes:    store.Notes(),
		Messages: store.Messages(),
		PDFs:     store.PDFs(),
	}
	guard := services.NewOwnershipGuard(repos.Canvases)
	publisher := messaging.NewLogPublisher(logger)
	metrics := mocks.NopMetrics{}

	objects := new(mocks.MockObjectStore)
	objects.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	extractor := new(mocks.MockTextExtractor)
	extractor.On("ExtractText", mock.Anything, mock.Anything).Return("extracted text", nil).Maybe()
	provider := new(mocks.MockChatProvider)

	commandBus, err := di.ProvideCommandBus(repos, guard, objects, extractor, publisher, metrics, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(repos, guard, metrics, logger)
	require.NoError(t, err)

	sessions, err := auth.NewSessionManager(auth.SessionConfig{SecretKey: "test-secret", Issuer: "zyra"})
	require.NoError(t, err)

	router := rest.NewRouter(rest.Dependencies{
		CommandBus:   commandBus,
		QueryBus:     queryBus,
		ChatService:  services.NewChatService(provider, metrics, logger, 0),
		AuthService:  services.NewAuthService(repos.Users, sessions, publisher, logger),
		Sessions:     sessions,
		RateLimiter:  auth.NewTokenBucketLimiter(10000),
		ErrorHandler: pkgerrors.NewErrorHandler(logger, false),
		Logger:       logger,
	})

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	return &Server{
		Server:   srv,
		Store:    store,
		Sessions: sessions,
		Objects:  objects,
		Provider: provider,
	}
}

// Token issues a session token for userID
func (s *Server) Token(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := s.Sessions.Issue(userID, userID+"@example.com", "Test")
	require.NoError(t, err)
	return token
}
