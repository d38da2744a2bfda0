package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSimulatedEventHasFreshID(t *testing.T) {
	a := NewSimulatedEvent("Accident", SeverityHigh, Coordinate{Lat: 12.9, Lon: 77.5}, 500)
	b := NewSimulatedEvent("Accident", SeverityHigh, Coordinate{Lat: 12.9, Lon: 77.5}, 500)

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, "Accident", a.Name)
	require.InDelta(t, 500, a.RadiusMeters, 1e-9)
}

func TestSeverityForRules(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	valid := map[string]bool{SeverityLow: true, SeverityMedium: true, SeverityHigh: true}

	for i := 0; i < 200; i++ {
		require.Equal(t, SeverityHigh, SeverityFor("Rally", rng))

		// Accidents and roadblocks never come out low.
		require.NotEqual(t, SeverityLow, SeverityFor("Accident", rng))
		require.NotEqual(t, SeverityLow, SeverityFor("Roadblock", rng))

		require.True(t, valid[SeverityFor("Congestion", rng)])
		require.True(t, valid[SeverityFor("Construction", rng)])
	}
}
