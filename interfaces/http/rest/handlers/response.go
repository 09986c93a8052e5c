package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// maxJSONBody bounds every JSON request body. Canvas graphs are the largest.
const maxJSONBody = 8 << 20

type successResponse struct {
	Success bool `json:"success"`
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// decodeJSON reads a JSON body into dst. Malformed bodies are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return pkgerrors.NewValidationError("Request body too large")
		case errors.Is(err, io.EOF):
			return pkgerrors.NewValidationError("Request body is required")
		default:
			return pkgerrors.NewValidationError("Invalid request body").WithCause(err)
		}
	}
	return nil
}

// currentUser returns the authenticated caller id
func currentUser(r *http.Request) (string, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return "", pkgerrors.NewUnauthorizedError("Unauthorized")
	}
	return user.UserID, nil
}
