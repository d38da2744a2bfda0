package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"route-session-service/internal/domain"
	"route-session-service/internal/platform/obs"
	"route-session-service/internal/polyline"
	"route-session-service/internal/ports"
)

// HTTPPlanner implements RoutePlanner against the backend routing service.
//
// It coordinates request shaping (event descriptor, provider hint),
// external calls with retry/backoff, and response mapping including
// polyline decoding when the backend omits the detailed geometry.
//
// The planner is safe for concurrent use.
type HTTPPlanner struct {
	session *http.Client
	baseURL string
	log     zerolog.Logger
}

func NewHTTPPlanner(baseURL string, log zerolog.Logger) (*HTTPPlanner, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("planner base URL is empty")
	}

	return &HTTPPlanner{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		log:     log,
	}, nil
}

type suggestCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type suggestRequest struct {
	Source            string             `json:"source"`
	Destination       string             `json:"destination"`
	Event             string             `json:"event"`
	EventLocation     *suggestCoordinate `json:"event_location,omitempty"`
	EventSeverity     string             `json:"event_severity"`
	Mode              string             `json:"mode"`
	PreferredProvider string             `json:"preferred_provider,omitempty"`
}

type suggestStep struct {
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Maneuver    struct {
		Location []float64 `json:"location"`
	} `json:"maneuver"`
}

type suggestResponse struct {
	RecommendedRoute string             `json:"recommended_route"`
	Reason           string             `json:"reason"`
	DistanceKm       float64            `json:"distance_km"`
	DurationMinutes  float64            `json:"duration_minutes"`
	EstimatedCO2Kg   float64            `json:"estimated_co2_kg"`
	Geometry         string             `json:"geometry"`
	DetailedGeometry [][]float64        `json:"detailed_geometry"`
	Steps            []suggestStep      `json:"steps"`
	StartPoint       *suggestCoordinate `json:"start_point"`
	EndPoint         *suggestCoordinate `json:"end_point"`
	Debug            struct {
		ProviderUsed string `json:"provider_used"`
	} `json:"debug"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Suggest asks the backend for a route recommendation.
func (p *HTTPPlanner) Suggest(
	ctx context.Context,
	req domain.RoutePlanRequest,
) (_ *domain.RoutePlanResult, err error) {
	defer obs.Time(ctx, p.log, "planner.Suggest")(&err)

	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, errors.New("suggest: source and destination must be non-empty")
	}

	mode := req.Mode
	if mode == "" {
		mode = "car"
	}

	wire := suggestRequest{
		Source:            req.Source,
		Destination:       req.Destination,
		Mode:              mode,
		PreferredProvider: req.Provider,
	}
	if req.Event != nil {
		wire.Event = req.Event.Name
		wire.EventSeverity = req.Event.Severity
		wire.EventLocation = &suggestCoordinate{
			Lat: req.Event.Location.Lat,
			Lon: req.Event.Location.Lon,
		}
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("suggest: encode request: %w", err)
	}

	endpoint := p.baseURL + "/routing/suggest"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", asPlannerError(err))
	}
	defer resp.Body.Close()

	var decoded suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("suggest: decode response: %w", err)
	}

	return mapResult(decoded), nil
}

// asPlannerError converts backend failures into a PlannerError carrying the
// human-readable detail from the FastAPI-style error body.
func asPlannerError(err error) error {
	var he *httpStatusError
	if !errors.As(err, &he) {
		return err
	}

	detail := ""
	var body errorBody
	if jsonErr := json.Unmarshal([]byte(he.Body), &body); jsonErr == nil {
		detail = strings.TrimSpace(body.Detail)
	}
	if detail == "" {
		detail = fmt.Sprintf("planning service returned status %d", he.Code)
	}

	return &ports.PlannerError{StatusCode: he.Code, Detail: detail}
}

func mapResult(decoded suggestResponse) *domain.RoutePlanResult {
	result := &domain.RoutePlanResult{
		RecommendedRoute: decoded.RecommendedRoute,
		Reason:           decoded.Reason,
		DistanceKm:       decoded.DistanceKm,
		DurationMinutes:  decoded.DurationMinutes,
		EstimatedCO2Kg:   decoded.EstimatedCO2Kg,
		Geometry:         decoded.Geometry,
		Provider:         decoded.Debug.ProviderUsed,
	}

	if decoded.StartPoint != nil {
		result.StartPoint = &domain.Coordinate{Lat: decoded.StartPoint.Lat, Lon: decoded.StartPoint.Lon}
	}
	if decoded.EndPoint != nil {
		result.EndPoint = &domain.Coordinate{Lat: decoded.EndPoint.Lat, Lon: decoded.EndPoint.Lon}
	}

	for _, pair := range decoded.DetailedGeometry {
		if len(pair) != 2 {
			continue
		}
		result.DetailedGeometry = append(result.DetailedGeometry, domain.Coordinate{
			Lat: pair[0],
			Lon: pair[1],
		})
	}

	// Backends that only return the compact form still get a detailed
	// geometry for the map layer and the event simulation.
	if len(result.DetailedGeometry) == 0 && result.Geometry != "" {
		result.DetailedGeometry = polyline.Decode(result.Geometry, polyline.DefaultPrecision)
	}

	for _, s := range decoded.Steps {
		step := domain.Step{
			Instruction:     s.Instruction,
			DistanceMeters:  s.Distance,
			DurationSeconds: s.Duration,
		}
		if step.Instruction == "" {
			step.Instruction = s.Name
		}
		// Maneuver locations arrive as [lon, lat].
		if len(s.Maneuver.Location) == 2 {
			step.Location = &domain.Coordinate{
				Lat: s.Maneuver.Location[1],
				Lon: s.Maneuver.Location[0],
			}
		}
		result.Steps = append(result.Steps, step)
	}

	return result
}
