package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands"
	"github.com/Labib591/zyra/application/commands/bus"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/interfaces/http/rest/middleware"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

// AuthOptions controls cookies and redirects of the sign-in flow
type AuthOptions struct {
	CookieSecure bool
	FrontendURL  string
}

// AuthHandler handles registration, sign-in and sessions
type AuthHandler struct {
	commandBus *bus.CommandBus
	auth       *services.AuthService
	google     *auth.GoogleOAuth
	options    AuthOptions
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler. google may be nil.
func NewAuthHandler(
	commandBus *bus.CommandBus,
	authService *services.AuthService,
	google *auth.GoogleOAuth,
	options AuthOptions,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		commandBus: commandBus,
		auth:       authService,
		google:     google,
		options:    options,
		errors:     errs,
		logger:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RegisterUserCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("email and password are required"))
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	respondJSON(w, h.logger, http.StatusOK, session)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, h.logger, http.StatusOK, successResponse{Success: true})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"user": user})
}

// GoogleLogin handles GET /auth/google/login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		h.errors.HandleStatus(w, r, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state, err := auth.NewState()
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewInternalError("failed to start sign-in").WithCause(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		h.errors.HandleStatus(w, r, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("Invalid OAuth state"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("authorization code is required"))
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUpstreamError("google", err))
		return
	}
	session, err := h.auth.SignInWithGoogle(r.Context(), profile)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	http.Redirect(w, r, h.options.FrontendURL, http.StatusFound)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *services.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
