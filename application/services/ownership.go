package services

import (
	"context"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// OwnershipGuard resolves a canvas and checks that the caller owns it.
// Every operation on a canvas or its children goes through Authorize first.
type OwnershipGuard struct {
	canvases ports.CanvasRepository
}

// NewOwnershipGuard creates a new guard
func NewOwnershipGuard(canvases ports.CanvasRepository) *OwnershipGuard {
	return &OwnershipGuard{canvases: canvases}
}

// Authorize returns the canvas when userID owns it. It fails with
// Unauthorized for an anonymous caller, NotFound for a missing canvas and
// Forbidden for a canvas owned by someone else, in that order.
func (g *OwnershipGuard) Authorize(ctx context.Context, userID, canvasID string) (*entities.Canvas, error) {
	if userID == "" {
		return nil, pkgerrors.NewUnauthorizedError("")
	}
	if canvasID == "" {
		return nil, pkgerrors.NewValidationError("canvasId is required")
	}

	canvas, err := g.canvases.GetByID(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	if !canvas.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("")
	}
	return canvas, nil
}
