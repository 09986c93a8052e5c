package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands/bus"
	querybus "github.com/Labib591/zyra/application/queries/bus"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/infrastructure/observability"
	"github.com/Labib591/zyra/interfaces/http/rest/handlers"
	"github.com/Labib591/zyra/interfaces/http/rest/middleware"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// Dependencies are the collaborators the HTTP layer dispatches to
type Dependencies struct {
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	ChatService  *services.ChatService
	AuthService  *services.AuthService
	Sessions     *auth.SessionManager
	GoogleOAuth  *auth.GoogleOAuth
	RateLimiter  auth.RateLimiter
	ErrorHandler *pkgerrors.ErrorHandler
	Collector    *observability.Collector
	Logger       *zap.Logger

	AllowedOrigins []string
	CookieSecure   bool
	FrontendURL    string
	EnableCORS     bool
	EnableTracing  bool

	// Ready reports whether downstream dependencies are reachable. Nil
	// means always ready.
	Ready func(ctx context.Context) error
}

// Router creates and configures the HTTP router
type Router struct {
	deps Dependencies
}

// NewRouter creates a new router instance
func NewRouter(deps Dependencies) *Router {
	if deps.ErrorHandler == nil {
		deps.ErrorHandler = pkgerrors.NewErrorHandler(deps.Logger, false)
	}
	return &Router{deps: deps}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	d := rt.deps
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	if d.EnableTracing {
		router.Use(observability.TracingMiddleware("zyra-api"))
	}
	router.Use(middleware.Logger(d.Logger))
	if d.Collector != nil {
		router.Use(observability.MetricsMiddleware(d.Collector))
	}

	if d.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if d.Collector != nil {
		router.Handle("/metrics", d.Collector.Handler())
	}

	canvasHandler := handlers.NewCanvasHandler(d.CommandBus, d.QueryBus, d.ErrorHandler, d.Logger)
	noteHandler := handlers.NewNoteHandler(d.CommandBus, d.QueryBus, d.ErrorHandler, d.Logger)
	messageHandler := handlers.NewMessageHandler(d.CommandBus, d.QueryBus, d.ErrorHandler, d.Logger)
	pdfHandler := handlers.NewPDFHandler(d.CommandBus, d.ErrorHandler, d.Logger)
	chatHandler := handlers.NewChatHandler(d.ChatService, d.ErrorHandler, d.Logger)
	authHandler := handlers.NewAuthHandler(d.CommandBus, d.AuthService, d.GoogleOAuth, handlers.AuthOptions{
		CookieSecure: d.CookieSecure,
		FrontendURL:  d.FrontendURL,
	}, d.ErrorHandler, d.Logger)

	authenticate := middleware.Authenticate(d.Sessions, d.ErrorHandler, d.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(middleware.RateLimit(d.RateLimiter, d.ErrorHandler, d.Logger))
		}

		// Public sign-in endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/google/login", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)
			r.With(authenticate).Get("/session", authHandler.Session)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			if d.RateLimiter != nil {
				r.Use(middleware.RateLimit(d.RateLimiter, d.ErrorHandler, d.Logger))
			}

			r.Get("/my-canvases", canvasHandler.MyCanvases)
			r.Route("/canvases", func(r chi.Router) {
				r.Get("/", canvasHandler.ListCanvases)
				r.Post("/", canvasHandler.CreateCanvas)
				r.Get("/{canvasID}", canvasHandler.GetCanvas)
				r.Patch("/{canvasID}", canvasHandler.UpdateCanvas)
				r.Delete("/{canvasID}", canvasHandler.DeleteCanvas)

				r.Get("/{canvasID}/messages", messageHandler.ListMessages)
				r.Post("/{canvasID}/messages", messageHandler.CreateMessage)
				r.Delete("/{canvasID}/messages", messageHandler.DeleteMessages)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.ListNotes)
				r.Post("/", noteHandler.CreateNote)
				r.Patch("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
			})

			r.Route("/pdfs", func(r chi.Router) {
				r.Post("/", pdfHandler.UploadPDF)
				r.Delete("/", pdfHandler.DeletePDF)
			})

			r.Post("/chat", chatHandler.Chat)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := rt.deps.Ready(ctx); err != nil {
			rt.deps.Logger.Warn("Readiness check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
