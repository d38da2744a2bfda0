package ports

import (
	"context"

	"route-session-service/internal/domain"
)

// Short-lived cache for suggest responses, keyed by the full request tuple.
// A miss is (nil, nil).
type SuggestionCache interface {
	Get(ctx context.Context, key string) (*domain.RoutePlanResult, error)
	Put(ctx context.Context, key string, result *domain.RoutePlanResult) error
}
