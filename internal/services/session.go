package services

import (
	"math"
	"sync"

	"github.com/rs/zerolog"

	"route-session-service/internal/domain"
	"route-session-service/internal/geo"
	"route-session-service/internal/ports"
)

// Session lifecycle states.
type State string

const (
	StateIdle       State = "IDLE"
	StateRequesting State = "REQUESTING"
	StateDisplayed  State = "DISPLAYED"
)

const genericPlannerError = "route planning service unavailable"

// Session is the mutable aggregate holding the displayed route for one
// active source/destination pairing.
//
// All triggers mutate it only through the token-checked Apply step: a
// response is applied iff its token still equals pendingToken at arrival,
// so no two triggers can apply conflicting results regardless of the order
// responses come back in.
type Session struct {
	mu  sync.Mutex
	log zerolog.Logger

	state    State
	current  *domain.RoutePlanResult
	previous *domain.RoutePlanResult

	// Endpoint pair (and mode) reflected in the current result.
	displayedSource      string
	displayedDestination string
	displayedMode        string

	pendingToken     uint64
	lastAppliedToken uint64

	activeEvent           *domain.SimulatedEvent
	simulatedForEndpoints bool
	errText               string

	deltas       *DeltaTracker
	notification *NotificationLifecycle
}

// Read-only view handed to the presentation layer.
type Snapshot struct {
	State            State
	Loading          bool
	Error            string
	Current          *domain.RoutePlanResult
	Previous         *domain.RoutePlanResult
	Source           string
	Destination      string
	Mode             string
	DistanceChanged  bool
	ETAChanged       bool
	Deltas           RouteDeltas
	ActiveEvent      *domain.SimulatedEvent
	Notification     *Notification
	PendingToken     uint64
	LastAppliedToken uint64
}

func NewSession(deltas *DeltaTracker, notification *NotificationLifecycle, log zerolog.Logger) *Session {
	return &Session{
		state:        StateIdle,
		deltas:       deltas,
		notification: notification,
		log:          log,
	}
}

// BeginRequest stamps the next supersession token and moves the session to
// REQUESTING. Whatever is displayed stays visible while the request is
// pending.
func (s *Session) BeginRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingToken++
	s.state = StateRequesting
	return s.pendingToken
}

// Apply resolves a request. It is the single mutation point for results:
// a stale token (superseded by a newer request) is discarded
// unconditionally, success or failure alike. Returns whether the response
// was applied.
func (s *Session) Apply(token uint64, req domain.RoutePlanRequest, result *domain.RoutePlanResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.pendingToken {
		s.log.Debug().
			Uint64("token", token).
			Uint64("pending", s.pendingToken).
			Msg("discarding superseded response")
		return false
	}

	s.lastAppliedToken = token

	if err != nil {
		detail := ports.ErrorDetail(err)
		if detail == "" {
			detail = genericPlannerError
		}
		s.errText = detail

		// A failure never clears an already-displayed route.
		if s.current == nil {
			s.state = StateIdle
		} else {
			s.state = StateDisplayed
		}
		s.log.Warn().Err(err).Uint64("token", token).Msg("route request failed")
		return true
	}

	s.previous = s.current
	s.current = result
	s.state = StateDisplayed
	s.errText = ""
	s.displayedSource = req.Source
	s.displayedDestination = req.Destination
	s.displayedMode = req.Mode

	if DetectReroute(s.previous, s.current) {
		deltas := ComputeDeltas(s.previous, s.current)
		s.deltas.Flag(deltas)

		if req.Event != nil {
			s.notification.Publish(req.Event, deltas)
			s.logEventClearance(req.Event, result)
		}

		s.log.Info().
			Uint64("token", token).
			Float64("distance_delta_km", deltas.DistanceKm).
			Float64("duration_delta_min", deltas.DurationMinutes).
			Bool("event_caused", req.Event != nil).
			Msg("reroute applied")
	}

	return true
}

// logEventClearance reports how far the rerouted geometry passes from the
// disruption it was asked to avoid.
func (s *Session) logEventClearance(event *domain.SimulatedEvent, result *domain.RoutePlanResult) {
	if len(result.DetailedGeometry) < 2 {
		return
	}
	dist, _ := geo.MinDistanceToPath(result.DetailedGeometry, event.Location)
	if math.IsInf(dist, 1) {
		return
	}
	s.log.Info().
		Str("event", event.Name).
		Float64("clearance_m", dist).
		Bool("avoided", dist > event.RadiusMeters).
		Msg("event clearance after reroute")
}

// ResetForEndpoints clears the per-pair state when source or destination
// changes: previous result, active event, one-shot marker, change flags and
// transient error. The token sequence and the displayed result are kept.
func (s *Session) ResetForEndpoints() {
	s.mu.Lock()
	s.previous = nil
	s.activeEvent = nil
	s.simulatedForEndpoints = false
	s.errText = ""
	s.mu.Unlock()

	s.deltas.Reset()
	s.notification.Dismiss()
}

// SetActiveEvent records the disruption currently driving recomputation.
func (s *Session) SetActiveEvent(event *domain.SimulatedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeEvent = event
}

// MarkSimulated flags that the one-shot simulation has run for the current
// endpoint pair. Cleared only by an endpoint change.
func (s *Session) MarkSimulated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulatedForEndpoints = true
}

// SimulationAllowed reports whether the one-shot trigger may arm: a result
// is displayed, no event is active and the pair was not simulated yet.
func (s *Session) SimulationAllowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.activeEvent == nil && !s.simulatedForEndpoints
}

// DisplayedEndpoints returns the pair reflected in the current result.
func (s *Session) DisplayedEndpoints() (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayedSource, s.displayedDestination, s.current != nil
}

// CurrentResult returns the displayed result, or nil.
func (s *Session) CurrentResult() *domain.RoutePlanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ProviderHint returns the provider that served the displayed result, so
// subsequent requests stick to the same backend engine. Empty before the
// first result.
func (s *Session) ProviderHint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Provider
}

// DismissNotification clears the active banner.
func (s *Session) DismissNotification() {
	s.notification.Dismiss()
}

// Snapshot returns a consistent read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	distanceChanged, etaChanged := s.deltas.Flags()

	return Snapshot{
		State:            s.state,
		Loading:          s.state == StateRequesting,
		Error:            s.errText,
		Current:          s.current,
		Previous:         s.previous,
		Source:           s.displayedSource,
		Destination:      s.displayedDestination,
		Mode:             s.displayedMode,
		DistanceChanged:  distanceChanged,
		ETAChanged:       etaChanged,
		Deltas:           s.deltas.Deltas(),
		ActiveEvent:      s.activeEvent,
		Notification:     s.notification.Active(),
		PendingToken:     s.pendingToken,
		LastAppliedToken: s.lastAppliedToken,
	}
}
