package services

import (
	"sync"

	"route-session-service/internal/domain"
)

// The user-visible "route updated" banner. Raised only for reroutes caused
// by a simulated event, never for plain user-edit re-requests.
type Notification struct {
	EventName            string  `json:"event_name"`
	Severity             string  `json:"severity"`
	DistanceDeltaKm      float64 `json:"distance_delta_km"`
	DurationDeltaMinutes float64 `json:"duration_delta_minutes"`
}

// NotificationLifecycle holds at most one active notification. A newer
// event-caused reroute replaces the payload; only explicit dismissal clears
// it.
type NotificationLifecycle struct {
	mu     sync.Mutex
	active *Notification
}

func NewNotificationLifecycle() *NotificationLifecycle {
	return &NotificationLifecycle{}
}

// Publish replaces the active notification with one derived from the event
// and the reroute deltas.
func (n *NotificationLifecycle) Publish(event *domain.SimulatedEvent, deltas RouteDeltas) {
	if event == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = &Notification{
		EventName:            event.Name,
		Severity:             event.Severity,
		DistanceDeltaKm:      deltas.DistanceKm,
		DurationDeltaMinutes: deltas.DurationMinutes,
	}
}

// Dismiss clears the active notification.
func (n *NotificationLifecycle) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = nil
}

// Active returns a copy of the current notification, or nil.
func (n *NotificationLifecycle) Active() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active == nil {
		return nil
	}
	cp := *n.active
	return &cp
}
