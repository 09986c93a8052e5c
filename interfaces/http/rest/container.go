package rest

import (
	"github.com/Labib591/zyra/infrastructure/di"
	"github.com/Labib591/zyra/infrastructure/observability"
)

// DependenciesFrom collects the router dependencies from a wired container
func DependenciesFrom(c *di.Container) Dependencies {
	return Dependencies{
		CommandBus:     c.CommandBus,
		QueryBus:       c.QueryBus,
		ChatService:    c.ChatService,
		AuthService:    c.AuthService,
		Sessions:       c.Sessions,
		GoogleOAuth:    c.GoogleOAuth,
		RateLimiter:    c.RateLimiter,
		ErrorHandler:   c.ErrorHandler,
		Collector:      metricsCollector(c),
		Logger:         c.Logger,
		AllowedOrigins: c.Config.AllowedOrigins,
		CookieSecure:   c.Config.CookieSecure,
		FrontendURL:    c.Config.FrontendURL,
		EnableCORS:     c.Config.EnableCORS,
		EnableTracing:  c.Tracer != nil,
	}
}

func metricsCollector(c *di.Container) *observability.Collector {
	if !c.Config.EnableMetrics {
		return nil
	}
	return c.Collector
}
