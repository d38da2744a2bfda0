package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"route-session-service/internal/domain"
	"route-session-service/internal/ports"
)

func TestHTTPPlannerSuggest(t *testing.T) {
	var got suggestRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/routing/suggest", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"recommended_route": "BTM Layout → MG Road",
			"reason": "Dynamic Route",
			"distance_km": 6.5,
			"duration_minutes": 7.8,
			"estimated_co2_kg": 1.17,
			"geometry": "_p~iF~ps|U_ulLnnqC",
			"detailed_geometry": [[12.91, 77.60], [12.92, 77.61]],
			"steps": [
				{"name": "Hosur Road", "distance": 420, "duration": 60,
				 "maneuver": {"location": [77.60, 12.91]}}
			],
			"start_point": {"lat": 12.91, "lon": 77.60},
			"end_point": {"lat": 12.97, "lon": 77.61},
			"debug": {"provider_used": "mapbox"}
		}`))
	}))
	defer srv.Close()

	p, err := NewHTTPPlanner(srv.URL, zerolog.Nop())
	require.NoError(t, err)

	event := domain.NewSimulatedEvent("Roadblock", domain.SeverityHigh,
		domain.Coordinate{Lat: 12.93, Lon: 77.60}, 500)

	result, err := p.Suggest(context.Background(), domain.RoutePlanRequest{
		Source:      "BTM Layout",
		Destination: "MG Road",
		Mode:        "car",
		Provider:    "mapbox",
		Event:       &event,
	})
	require.NoError(t, err)

	require.Equal(t, "Roadblock", got.Event)
	require.Equal(t, domain.SeverityHigh, got.EventSeverity)
	require.NotNil(t, got.EventLocation)
	require.Equal(t, "mapbox", got.PreferredProvider)

	require.Equal(t, "BTM Layout → MG Road", result.RecommendedRoute)
	require.InDelta(t, 6.5, result.DistanceKm, 1e-9)
	require.Equal(t, "mapbox", result.Provider)
	require.Len(t, result.DetailedGeometry, 2)
	require.Len(t, result.Steps, 1)
	require.Equal(t, "Hosur Road", result.Steps[0].Instruction)
	require.NotNil(t, result.Steps[0].Location)
	require.InDelta(t, 12.91, result.Steps[0].Location.Lat, 1e-9)
}

func TestHTTPPlannerDecodesCompactGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"recommended_route": "A → B",
			"distance_km": 1.0,
			"duration_minutes": 2.0,
			"geometry": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@",
			"detailed_geometry": [],
			"debug": {"provider_used": "osrm"}
		}`))
	}))
	defer srv.Close()

	p, err := NewHTTPPlanner(srv.URL, zerolog.Nop())
	require.NoError(t, err)

	result, err := p.Suggest(context.Background(), domain.RoutePlanRequest{
		Source: "A", Destination: "B",
	})
	require.NoError(t, err)
	// The compact form is decoded so the map layer always has coordinates.
	require.NotEmpty(t, result.DetailedGeometry)
}

func TestHTTPPlannerErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "Routing provider failed: upstream timeout"}`))
	}))
	defer srv.Close()

	p, err := NewHTTPPlanner(srv.URL, zerolog.Nop())
	require.NoError(t, err)

	_, err = p.Suggest(context.Background(), domain.RoutePlanRequest{
		Source: "A", Destination: "B",
	})
	require.Error(t, err)
	require.Equal(t, "Routing provider failed: upstream timeout", ports.ErrorDetail(err))
}

func TestHTTPPlannerGenericErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("nope"))
	}))
	defer srv.Close()

	p, err := NewHTTPPlanner(srv.URL, zerolog.Nop())
	require.NoError(t, err)

	_, err = p.Suggest(context.Background(), domain.RoutePlanRequest{
		Source: "A", Destination: "B",
	})
	require.Error(t, err)
	require.Equal(t, "planning service returned status 403", ports.ErrorDetail(err))
}
