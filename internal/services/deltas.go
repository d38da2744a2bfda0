package services

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"route-session-service/internal/domain"
)

// DefaultDeltaWindow is how long a change flag stays raised after a reroute.
const DefaultDeltaWindow = 3000 * time.Millisecond

// Signed differences between the previously displayed result and the
// current one (previous minus current, so positive means improvement).
type RouteDeltas struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// DetectReroute reports whether the route geometry changed between two
// consecutive results. Equality is exact and on geometry only.
func DetectReroute(previous, current *domain.RoutePlanResult) bool {
	if previous == nil || current == nil {
		return false
	}
	return previous.GeometryKey() != current.GeometryKey()
}

// ComputeDeltas returns previous-minus-current metric differences.
func ComputeDeltas(previous, current *domain.RoutePlanResult) RouteDeltas {
	return RouteDeltas{
		DistanceKm:      previous.DistanceKm - current.DistanceKm,
		DurationMinutes: previous.DurationMinutes - current.DurationMinutes,
	}
}

// DeltaTracker raises DistanceChanged/ETAChanged after a reroute and lowers
// each flag independently once the display window elapses. The two reset
// timers never touch each other.
type DeltaTracker struct {
	mu     sync.Mutex
	clock  clock.Clock
	window time.Duration

	distanceChanged bool
	etaChanged      bool
	deltas          RouteDeltas

	distanceTimer *clock.Timer
	etaTimer      *clock.Timer
}

func NewDeltaTracker(clk clock.Clock, window time.Duration) *DeltaTracker {
	if window <= 0 {
		window = DefaultDeltaWindow
	}
	return &DeltaTracker{clock: clk, window: window}
}

// Flag records the deltas of a reroute and raises the flags for the metrics
// that actually moved. A raised flag restarts only its own decay timer.
func (t *DeltaTracker) Flag(d RouteDeltas) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.deltas = d

	if d.DistanceKm != 0 {
		t.distanceChanged = true
		if t.distanceTimer != nil {
			t.distanceTimer.Stop()
		}
		t.distanceTimer = t.clock.AfterFunc(t.window, func() {
			t.mu.Lock()
			t.distanceChanged = false
			t.mu.Unlock()
		})
	}

	if d.DurationMinutes != 0 {
		t.etaChanged = true
		if t.etaTimer != nil {
			t.etaTimer.Stop()
		}
		t.etaTimer = t.clock.AfterFunc(t.window, func() {
			t.mu.Lock()
			t.etaChanged = false
			t.mu.Unlock()
		})
	}
}

// Reset lowers both flags and cancels any pending decay timers. Used when
// the session endpoints change.
func (t *DeltaTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.distanceChanged = false
	t.etaChanged = false
	t.deltas = RouteDeltas{}

	if t.distanceTimer != nil {
		t.distanceTimer.Stop()
		t.distanceTimer = nil
	}
	if t.etaTimer != nil {
		t.etaTimer.Stop()
		t.etaTimer = nil
	}
}

// Flags returns (distanceChanged, etaChanged).
func (t *DeltaTracker) Flags() (bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.distanceChanged, t.etaChanged
}

// Deltas returns the most recently recorded reroute deltas.
func (t *DeltaTracker) Deltas() RouteDeltas {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deltas
}
