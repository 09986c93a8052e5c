package di

import (
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands/bus"
	"github.com/Labib591/zyra/application/ports"
	querybus "github.com/Labib591/zyra/application/queries/bus"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/infrastructure/config"
	"github.com/Labib591/zyra/infrastructure/observability"
	"github.com/Labib591/zyra/pkg/auth"
	"github.com/Labib591/zyra/pkg/errors"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	ConfigWatcher *config.Watcher
	ErrorHandler  *errors.ErrorHandler
	Repositories  *Repositories
	EventBus      ports.EventPublisher
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	ChatService   *services.ChatService
	AuthService   *services.AuthService
	Sessions      *auth.SessionManager
	GoogleOAuth   *auth.GoogleOAuth
	Collector     *observability.Collector
	RateLimiter   auth.RateLimiter
	Tracer        *observability.TracerProvider
}
