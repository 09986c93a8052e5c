package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// DefaultUserName is used when a registration omits the display name.
const DefaultUserName = "User"

// User is an account that owns canvases. PasswordHash is nil for accounts
// created through OAuth sign-in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Image        string    `json:"image,omitempty"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser creates a user with a normalized email address
func NewUser(email, name string, passwordHash *string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultUserName
	}

	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// HasPassword reports whether the account can sign in with credentials
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
