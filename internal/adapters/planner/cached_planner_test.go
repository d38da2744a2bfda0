package planner

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"route-session-service/internal/domain"
)

type memoryCache struct {
	entries map[string]*domain.RoutePlanResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*domain.RoutePlanResult)}
}

func (m *memoryCache) Get(ctx context.Context, key string) (*domain.RoutePlanResult, error) {
	return m.entries[key], nil
}

func (m *memoryCache) Put(ctx context.Context, key string, result *domain.RoutePlanResult) error {
	m.entries[key] = result
	return nil
}

func TestCachedPlannerServesRepeatFromCache(t *testing.T) {
	inner := NewMockPlanner()
	inner.Script("A", "B", &domain.RoutePlanResult{RecommendedRoute: "A → B", Geometry: "g1"})

	c := NewCachedPlanner(inner, newMemoryCache(), zerolog.Nop())
	ctx := context.Background()

	req := domain.RoutePlanRequest{Source: "A", Destination: "B", Mode: "car"}

	first, err := c.Suggest(ctx, req)
	require.NoError(t, err)

	second, err := c.Suggest(ctx, req)
	require.NoError(t, err)
	require.Equal(t, first.Geometry, second.Geometry)

	// The identical repeat never reached the backend.
	require.Len(t, inner.Calls(), 1)
}

func TestCachedPlannerKeysOnEvent(t *testing.T) {
	inner := NewMockPlanner()
	inner.Script("A", "B", &domain.RoutePlanResult{Geometry: "plain"})
	inner.Script("A", "B", &domain.RoutePlanResult{Geometry: "detour"})

	c := NewCachedPlanner(inner, newMemoryCache(), zerolog.Nop())
	ctx := context.Background()

	plain, err := c.Suggest(ctx, domain.RoutePlanRequest{Source: "A", Destination: "B"})
	require.NoError(t, err)
	require.Equal(t, "plain", plain.Geometry)

	event := domain.NewSimulatedEvent("Accident", domain.SeverityHigh,
		domain.Coordinate{Lat: 12.9, Lon: 77.5}, 500)
	detour, err := c.Suggest(ctx, domain.RoutePlanRequest{
		Source: "A", Destination: "B", Event: &event,
	})
	require.NoError(t, err)

	// An event-carrying request must not collide with the plain entry.
	require.Equal(t, "detour", detour.Geometry)
	require.Len(t, inner.Calls(), 2)
}

func TestCachedPlannerDoesNotCacheFailures(t *testing.T) {
	inner := NewMockPlanner()

	c := NewCachedPlanner(inner, newMemoryCache(), zerolog.Nop())
	ctx := context.Background()

	req := domain.RoutePlanRequest{Source: "X", Destination: "Y"}

	_, err := c.Suggest(ctx, req)
	require.Error(t, err)

	_, err = c.Suggest(ctx, req)
	require.Error(t, err)
	require.Len(t, inner.Calls(), 2)
}
