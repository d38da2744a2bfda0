package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"route-session-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisSuggestionCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSuggestionCache(client, 30*time.Second), mr
}

func TestSuggestionCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	miss, err := c.Get(ctx, "BTM Layout|MG Road|car|")
	require.NoError(t, err)
	require.Nil(t, miss)

	result := &domain.RoutePlanResult{
		RecommendedRoute: "BTM Layout → MG Road",
		DistanceKm:       6.5,
		DurationMinutes:  7.8,
		Geometry:         "_p~iF~ps|U",
		DetailedGeometry: []domain.Coordinate{{Lat: 12.91, Lon: 77.60}},
		Provider:         "mapbox",
	}
	require.NoError(t, c.Put(ctx, "BTM Layout|MG Road|car|", result))

	hit, err := c.Get(ctx, "BTM Layout|MG Road|car|")
	require.NoError(t, err)
	require.NotNil(t, hit)
	require.Equal(t, result.RecommendedRoute, hit.RecommendedRoute)
	require.Equal(t, result.DetailedGeometry, hit.DetailedGeometry)
	require.Equal(t, result.Provider, hit.Provider)
}

func TestSuggestionCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", &domain.RoutePlanResult{RecommendedRoute: "A → B"}))

	mr.FastForward(31 * time.Second)

	miss, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, miss)
}

func TestSuggestionCacheValidation(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "")
	require.Error(t, err)

	require.Error(t, c.Put(ctx, "", &domain.RoutePlanResult{}))
	require.Error(t, c.Put(ctx, "k", nil))
}
