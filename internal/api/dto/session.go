package dto

import (
	"route-session-service/internal/domain"
	"route-session-service/internal/services"
)

type EndpointsRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
}

type MonitoringRequest struct {
	Enabled bool `json:"enabled"`
}

type StepResponse struct {
	Instruction     string             `json:"instruction"`
	DistanceMeters  float64            `json:"distance_meters"`
	DurationSeconds float64            `json:"duration_seconds"`
	Location        *domain.Coordinate `json:"location,omitempty"`
}

type RouteResultResponse struct {
	RecommendedRoute string              `json:"recommended_route"`
	Reason           string              `json:"reason,omitempty"`
	DistanceKm       float64             `json:"distance_km"`
	DurationMinutes  float64             `json:"duration_minutes"`
	EstimatedCO2Kg   float64             `json:"estimated_co2_kg"`
	StartPoint       *domain.Coordinate  `json:"start_point,omitempty"`
	EndPoint         *domain.Coordinate  `json:"end_point,omitempty"`
	Geometry         string              `json:"geometry,omitempty"`
	DetailedGeometry []domain.Coordinate `json:"detailed_geometry,omitempty"`
	Steps            []StepResponse      `json:"steps"`
	Provider         string              `json:"provider,omitempty"`
}

type NotificationResponse struct {
	EventName            string  `json:"event_name"`
	Severity             string  `json:"severity"`
	DistanceDeltaKm      float64 `json:"distance_delta_km"`
	DurationDeltaMinutes float64 `json:"duration_delta_minutes"`
}

type SessionResponse struct {
	State            string                 `json:"state"`
	Loading          bool                   `json:"loading"`
	Error            string                 `json:"error,omitempty"`
	Source           string                 `json:"source,omitempty"`
	Destination      string                 `json:"destination,omitempty"`
	Mode             string                 `json:"mode,omitempty"`
	Current          *RouteResultResponse   `json:"current,omitempty"`
	Previous         *RouteResultResponse   `json:"previous,omitempty"`
	DistanceChanged  bool                   `json:"distance_changed"`
	ETAChanged       bool                   `json:"eta_changed"`
	DistanceDeltaKm  float64                `json:"distance_delta_km"`
	DurationDeltaMin float64                `json:"duration_delta_minutes"`
	ActiveEvent      *domain.SimulatedEvent `json:"active_event,omitempty"`
	Notification     *NotificationResponse  `json:"notification,omitempty"`
}

type StepsResponse struct {
	Steps []StepResponse `json:"steps"`
}

func FromResult(r *domain.RoutePlanResult) *RouteResultResponse {
	if r == nil {
		return nil
	}
	out := &RouteResultResponse{
		RecommendedRoute: r.RecommendedRoute,
		Reason:           r.Reason,
		DistanceKm:       r.DistanceKm,
		DurationMinutes:  r.DurationMinutes,
		EstimatedCO2Kg:   r.EstimatedCO2Kg,
		StartPoint:       r.StartPoint,
		EndPoint:         r.EndPoint,
		Geometry:         r.Geometry,
		DetailedGeometry: r.DetailedGeometry,
		Steps:            FromSteps(r.Steps),
		Provider:         r.Provider,
	}
	return out
}

func FromSteps(steps []domain.Step) []StepResponse {
	out := make([]StepResponse, 0, len(steps))
	for _, s := range steps {
		out = append(out, StepResponse{
			Instruction:     s.Instruction,
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			Location:        s.Location,
		})
	}
	return out
}

func FromSnapshot(snap services.Snapshot) SessionResponse {
	resp := SessionResponse{
		State:            string(snap.State),
		Loading:          snap.Loading,
		Error:            snap.Error,
		Source:           snap.Source,
		Destination:      snap.Destination,
		Mode:             snap.Mode,
		Current:          FromResult(snap.Current),
		Previous:         FromResult(snap.Previous),
		DistanceChanged:  snap.DistanceChanged,
		ETAChanged:       snap.ETAChanged,
		DistanceDeltaKm:  snap.Deltas.DistanceKm,
		DurationDeltaMin: snap.Deltas.DurationMinutes,
		ActiveEvent:      snap.ActiveEvent,
	}
	if snap.Notification != nil {
		resp.Notification = &NotificationResponse{
			EventName:            snap.Notification.EventName,
			Severity:             snap.Notification.Severity,
			DistanceDeltaKm:      snap.Notification.DistanceDeltaKm,
			DurationDeltaMinutes: snap.Notification.DurationDeltaMinutes,
		}
	}
	return resp
}
