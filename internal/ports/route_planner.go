package ports

import (
	"context"

	"route-session-service/internal/domain"
)

// Contract for the backend route-planning collaborator.
type RoutePlanner interface {
	// Suggest asks the planning service for a route between the request's
	// source and destination, honoring the event descriptor and provider
	// hint when present.
	Suggest(ctx context.Context, req domain.RoutePlanRequest) (*domain.RoutePlanResult, error)
}
