package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Labib591/zyra/domain/core/valueobjects"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// DefaultCanvasTitle is used when a canvas is created without a title.
const DefaultCanvasTitle = "Untitled"

const maxTitleLength = 200

// Canvas is a user-owned workspace. Nodes and Edges are the serialized graph
// as last saved by the client.
type Canvas struct {
	ID        string                     `json:"id"`
	Title     string                     `json:"title"`
	UserID    string                     `json:"userId"`
	Nodes     valueobjects.GraphDocument `json:"nodes"`
	Edges     valueobjects.GraphDocument `json:"edges"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// CanvasPatch lists the fields supplied in a partial update. Nil fields are
// left untouched.
type CanvasPatch struct {
	Title *string
	Nodes valueobjects.GraphDocument
	Edges valueobjects.GraphDocument
}

// IsEmpty reports whether the patch changes nothing
func (p CanvasPatch) IsEmpty() bool {
	return p.Title == nil && p.Nodes == nil && p.Edges == nil
}

// NewCanvas creates a canvas owned by userID
func NewCanvas(userID, title string, nodes, edges valueobjects.GraphDocument) (*Canvas, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userId is required")
	}
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = valueobjects.EmptyGraphDocument
	}
	if edges == nil {
		edges = valueobjects.EmptyGraphDocument
	}

	now := time.Now().UTC()
	return &Canvas{
		ID:        uuid.NewString(),
		Title:     title,
		UserID:    userID,
		Nodes:     nodes,
		Edges:     edges,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsOwnedBy reports whether userID owns the canvas
func (c *Canvas) IsOwnedBy(userID string) bool {
	return userID != "" && c.UserID == userID
}

// Apply overwrites only the fields present in the patch.
func (c *Canvas) Apply(p CanvasPatch) error {
	if p.Title != nil {
		title, err := normalizeTitle(*p.Title)
		if err != nil {
			return err
		}
		c.Title = title
	}
	if p.Nodes != nil {
		c.Nodes = p.Nodes
	}
	if p.Edges != nil {
		c.Edges = p.Edges
	}
	if !p.IsEmpty() {
		c.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultCanvasTitle, nil
	}
	if len(title) > maxTitleLength {
		return "", pkgerrors.NewValidationError("title must be at most 200 characters")
	}
	return title, nil
}
