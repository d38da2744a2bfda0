package domain

import (
	"strconv"
	"strings"
)

// A single recomputation request sent to the planning service.
// Immutable once issued. Event travels by value on the request so the
// resolution path never reads mutable session state.
type RoutePlanRequest struct {
	Source      string
	Destination string
	Mode        string
	Provider    string
	Event       *SimulatedEvent
}

// One turn-by-turn instruction within a route.
type Step struct {
	Instruction     string
	DistanceMeters  float64
	DurationSeconds float64
	Location        *Coordinate
}

// The planning service's answer for one request.
// Immutable once received. DetailedGeometry, when present, takes precedence
// over the compact encoded Geometry.
type RoutePlanResult struct {
	RecommendedRoute string
	Reason           string
	DistanceKm       float64
	DurationMinutes  float64
	EstimatedCO2Kg   float64
	StartPoint       *Coordinate
	EndPoint         *Coordinate
	Geometry         string
	DetailedGeometry []Coordinate
	Steps            []Step
	Provider         string
}

// GeometryKey is the representation compared between consecutive results to
// decide whether a reroute happened. The detailed coordinate sequence wins
// over the encoded form when present; comparison is exact, so metric jitter
// without a geometry change never reads as a reroute.
func (r *RoutePlanResult) GeometryKey() string {
	if r == nil {
		return ""
	}
	if len(r.DetailedGeometry) > 0 {
		var b strings.Builder
		for _, c := range r.DetailedGeometry {
			b.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
			b.WriteByte(';')
		}
		return b.String()
	}
	return r.Geometry
}
