package valueobjects

import "fmt"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a role received from a client
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q: must be user or assistant", s)
	}
}

// String returns the wire form of the role
func (r Role) String() string {
	return string(r)
}
