package domain

import (
	"math/rand"

	"github.com/google/uuid"
)

// Severity levels understood by the planning service.
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// DisruptionNames is the closed set of synthesized disruption types.
var DisruptionNames = []string{
	"Accident",
	"Congestion",
	"Roadblock",
	"Rally",
	"Construction",
}

// A synthetic disruption injected by the scheduler, not by the user.
type SimulatedEvent struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Severity     string     `json:"severity"`
	Location     Coordinate `json:"location"`
	RadiusMeters float64    `json:"radius_meters"`
}

// NewSimulatedEvent builds an event at the given location with a fresh id.
func NewSimulatedEvent(name, severity string, location Coordinate, radiusMeters float64) SimulatedEvent {
	return SimulatedEvent{
		ID:           uuid.NewString(),
		Name:         name,
		Severity:     severity,
		Location:     location,
		RadiusMeters: radiusMeters,
	}
}

// SeverityFor assigns a severity to a disruption name. Accidents and
// roadblocks lean high, rallies are always high, everything else is uniform.
func SeverityFor(name string, rng *rand.Rand) string {
	switch name {
	case "Accident", "Roadblock":
		weighted := []string{SeverityMedium, SeverityHigh, SeverityHigh}
		return weighted[rng.Intn(len(weighted))]
	case "Rally":
		return SeverityHigh
	default:
		all := []string{SeverityLow, SeverityMedium, SeverityHigh}
		return all[rng.Intn(len(all))]
	}
}
