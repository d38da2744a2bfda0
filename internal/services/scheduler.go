package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"route-session-service/internal/domain"
	"route-session-service/internal/ports"
)

// Timings and knobs for the three recomputation triggers.
type SchedulerConfig struct {
	// Quiet period after the last endpoint edit before a request is issued.
	DebounceDelay time.Duration
	// Live-monitoring poll interval.
	PollInterval time.Duration
	// Per-tick probability that the poll synthesizes a disruption.
	PollProbability float64
	// Delay between a result being displayed and the one-shot simulation.
	SimulationDelay time.Duration
	// Affected radius attached to synthesized events.
	EventRadiusMeters float64
	// Upper bound for one backend call, including retries.
	RequestTimeout time.Duration
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		DebounceDelay:     2500 * time.Millisecond,
		PollInterval:      12000 * time.Millisecond,
		PollProbability:   0.20,
		SimulationDelay:   10000 * time.Millisecond,
		EventRadiusMeters: 500,
		RequestTimeout:    30 * time.Second,
	}
}

// Scheduler owns the three triggers that drive recomputation against one
// Session: debounce-on-edit, the live-monitoring poll, and the one-shot
// event simulation. Each trigger is a named, individually cancellable
// timer, so an endpoint change cancels exactly the timers tied to the
// stale pair. Every issued request is stamped with the session's next
// supersession token before dispatch.
type Scheduler struct {
	mu sync.Mutex

	cfg     SchedulerConfig
	session *Session
	planner ports.RoutePlanner
	clock   clock.Clock
	rng     *rand.Rand
	log     zerolog.Logger

	pendingSource      string
	pendingDestination string
	pendingMode        string

	debounceTimer *clock.Timer
	simTimer      *clock.Timer

	monitoring bool
	pollStop   chan struct{}
}

// NewScheduler wires the triggers. The clock and the seedable random
// source are injected so tests can drive timers and force or suppress the
// probabilistic poll deterministically.
func NewScheduler(
	session *Session,
	planner ports.RoutePlanner,
	clk clock.Clock,
	rng *rand.Rand,
	cfg SchedulerConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		session: session,
		planner: planner,
		clock:   clk,
		rng:     rng,
		log:     log,
	}
}

// EditEndpoints feeds the debounce trigger. Every edit re-arms the quiet
// period; a change of pair logically resets the session (event state,
// one-shot marker) before the new request lands and cancels the simulation
// timer tied to the old pair.
func (s *Scheduler) EditEndpoints(source, destination, mode string) {
	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)
	if mode == "" {
		mode = "car"
	}

	s.mu.Lock()
	changed := source != s.pendingSource || destination != s.pendingDestination
	s.pendingSource = source
	s.pendingDestination = destination
	s.pendingMode = mode

	if changed {
		if s.simTimer != nil {
			s.simTimer.Stop()
			s.simTimer = nil
		}
	}

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = s.clock.AfterFunc(s.cfg.DebounceDelay, s.debounceFire)
	s.mu.Unlock()

	if changed {
		s.session.ResetForEndpoints()
	}
}

func (s *Scheduler) debounceFire() {
	s.mu.Lock()
	source := s.pendingSource
	destination := s.pendingDestination
	mode := s.pendingMode
	s.mu.Unlock()

	if source == "" || destination == "" {
		return
	}

	// Retyping back to the displayed pair needs no recomputation.
	if dispSrc, dispDst, ok := s.session.DisplayedEndpoints(); ok &&
		dispSrc == source && dispDst == destination {
		s.log.Debug().Msg("debounce fired on displayed pair, skipping")
		return
	}

	s.issue(s.buildRequest(source, destination, mode, nil))
}

// SetPollProbability adjusts the per-tick trial probability.
func (s *Scheduler) SetPollProbability(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.PollProbability = p
}

// SetMonitoring toggles the background poll. The poll only synthesizes
// disruptions while a result is displayed.
func (s *Scheduler) SetMonitoring(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled == s.monitoring {
		return
	}
	s.monitoring = enabled

	if !enabled {
		close(s.pollStop)
		s.pollStop = nil
		return
	}

	stop := make(chan struct{})
	s.pollStop = stop
	ticker := s.clock.Ticker(s.cfg.PollInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.pollTick()
			}
		}
	}()
}

// pollTick draws one pseudo-random trial and, on success, synthesizes a
// disruption near the displayed route and feeds it into the normal event
// path.
func (s *Scheduler) pollTick() {
	current := s.session.CurrentResult()
	if current == nil {
		return
	}

	s.mu.Lock()
	trial := s.rng.Float64()
	probability := s.cfg.PollProbability
	s.mu.Unlock()
	if trial >= probability {
		return
	}

	s.mu.Lock()
	name := domain.DisruptionNames[s.rng.Intn(len(domain.DisruptionNames))]
	severity := domain.SeverityFor(name, s.rng)
	location, ok := s.pickPollLocation(current)
	s.mu.Unlock()
	if !ok {
		s.log.Debug().Msg("poll trigger skipped: no viable coordinate")
		return
	}

	event := domain.NewSimulatedEvent(name, severity, location, s.cfg.EventRadiusMeters)
	s.log.Info().
		Str("event", event.Name).
		Str("severity", event.Severity).
		Msg("live monitoring detected disruption")
	s.triggerEvent(event)
}

// pickPollLocation jitters a random point of the displayed geometry, the
// way the original event generator placed disruptions near a location.
// Caller holds s.mu.
func (s *Scheduler) pickPollLocation(current *domain.RoutePlanResult) (domain.Coordinate, bool) {
	if len(current.DetailedGeometry) > 0 {
		base := current.DetailedGeometry[s.rng.Intn(len(current.DetailedGeometry))]
		return s.jitter(base), true
	}
	if current.EndPoint != nil {
		return s.jitter(*current.EndPoint), true
	}
	return domain.Coordinate{}, false
}

// jitter offsets a coordinate by up to ±0.0045 degrees (~500 m). Caller
// holds s.mu.
func (s *Scheduler) jitter(c domain.Coordinate) domain.Coordinate {
	const maxOffset = 0.0045
	dLat := (s.rng.Float64()*2 - 1) * maxOffset
	dLon := (s.rng.Float64()*2 - 1) * maxOffset
	return c.OffsetBy(dLat, dLon)
}

// maybeArmSimulation arms the one-shot event simulation after a result is
// displayed with no active event and no prior simulation for the pair.
func (s *Scheduler) maybeArmSimulation() {
	if !s.session.SimulationAllowed() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.simTimer != nil {
		return
	}
	s.simTimer = s.clock.AfterFunc(s.cfg.SimulationDelay, s.simulationFire)
}

func (s *Scheduler) simulationFire() {
	s.mu.Lock()
	s.simTimer = nil
	s.mu.Unlock()

	if !s.session.SimulationAllowed() {
		return
	}

	current := s.session.CurrentResult()
	if current == nil {
		return
	}

	location, ok := s.pickSimulationLocation(current)
	if !ok {
		// Misfires are isolated to this cycle; debounce and poll keep running.
		s.log.Debug().Msg("simulation skipped: no viable coordinate")
		return
	}

	s.mu.Lock()
	name := domain.DisruptionNames[s.rng.Intn(len(domain.DisruptionNames))]
	s.mu.Unlock()

	event := domain.NewSimulatedEvent(name, domain.SeverityHigh, location, s.cfg.EventRadiusMeters)
	s.session.MarkSimulated()
	s.log.Info().
		Str("event", event.Name).
		Float64("lat", event.Location.Lat).
		Float64("lon", event.Location.Lon).
		Msg("simulating disruption on displayed route")
	s.triggerEvent(event)
}

// pickSimulationLocation samples the middle 30-70% index range of the
// detailed geometry, falling back to an offset near the destination when no
// detailed geometry is available.
func (s *Scheduler) pickSimulationLocation(current *domain.RoutePlanResult) (domain.Coordinate, bool) {
	points := current.DetailedGeometry

	if len(points) > 0 {
		lo := int(float64(len(points)) * 0.3)
		hi := int(float64(len(points)) * 0.7)
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(points) {
			hi = len(points)
		}
		s.mu.Lock()
		idx := lo + s.rng.Intn(hi-lo)
		s.mu.Unlock()
		return points[idx], true
	}

	if current.EndPoint != nil {
		s.mu.Lock()
		loc := s.jitter(*current.EndPoint)
		s.mu.Unlock()
		return loc, true
	}

	return domain.Coordinate{}, false
}

// triggerEvent is the shared event path for the poll and one-shot
// triggers: record the event on the session, then issue a recomputation
// carrying the event directly so the request never races session reads.
func (s *Scheduler) triggerEvent(event domain.SimulatedEvent) {
	s.session.SetActiveEvent(&event)

	source, destination, ok := s.session.DisplayedEndpoints()
	if !ok {
		return
	}

	s.mu.Lock()
	mode := s.pendingMode
	s.mu.Unlock()

	s.issue(s.buildRequest(source, destination, mode, &event))
}

func (s *Scheduler) buildRequest(source, destination, mode string, event *domain.SimulatedEvent) domain.RoutePlanRequest {
	return domain.RoutePlanRequest{
		Source:      source,
		Destination: destination,
		Mode:        mode,
		Provider:    s.session.ProviderHint(),
		Event:       event,
	}
}

// issue stamps the request with the next supersession token and resolves
// it asynchronously. Application is a single token-checked step on the
// session; superseded responses, including failures, are dropped there.
func (s *Scheduler) issue(req domain.RoutePlanRequest) {
	token := s.session.BeginRequest()
	s.log.Debug().
		Uint64("token", token).
		Str("source", req.Source).
		Str("destination", req.Destination).
		Bool("event", req.Event != nil).
		Msg("issuing route request")

	go s.resolve(token, req)
}

func (s *Scheduler) resolve(token uint64, req domain.RoutePlanRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.planner.Suggest(ctx, req)

	applied := s.session.Apply(token, req, result, err)
	if !applied {
		return
	}
	if err == nil {
		s.maybeArmSimulation()
	}
}

// Stop cancels every armed trigger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	if s.simTimer != nil {
		s.simTimer.Stop()
		s.simTimer = nil
	}
	if s.pollStop != nil {
		close(s.pollStop)
		s.pollStop = nil
		s.monitoring = false
	}
}
