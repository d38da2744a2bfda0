package planner

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"route-session-service/internal/domain"
	"route-session-service/internal/ports"
)

// CachedPlanner decorates a RoutePlanner with a short-lived response cache.
// Cache failures are logged and ignored: the backend call is the source of
// truth and a broken cache must never fail a recomputation.
type CachedPlanner struct {
	inner ports.RoutePlanner
	cache ports.SuggestionCache
	log   zerolog.Logger
}

func NewCachedPlanner(inner ports.RoutePlanner, cache ports.SuggestionCache, log zerolog.Logger) *CachedPlanner {
	return &CachedPlanner{inner: inner, cache: cache, log: log}
}

func (c *CachedPlanner) Suggest(
	ctx context.Context,
	req domain.RoutePlanRequest,
) (*domain.RoutePlanResult, error) {
	key := requestKey(req)

	if cached, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn().Err(err).Msg("suggestion cache read failed")
	} else if cached != nil {
		c.log.Debug().Str("key", key).Msg("suggestion served from cache")
		return cached, nil
	}

	result, err := c.inner.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, key, result); err != nil {
		c.log.Warn().Err(err).Msg("suggestion cache write failed")
	}
	return result, nil
}

// requestKey includes every field that can change the answer, so an
// event-carrying recomputation never collides with a plain request.
func requestKey(req domain.RoutePlanRequest) string {
	parts := []string{req.Source, req.Destination, req.Mode, req.Provider}
	if req.Event != nil {
		parts = append(parts, req.Event.Name, req.Event.Severity,
			req.Event.Location.String())
	}
	return strings.Join(parts, "|")
}
