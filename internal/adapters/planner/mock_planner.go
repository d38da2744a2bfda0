package planner

import (
	"context"
	"fmt"
	"sync"

	"route-session-service/internal/domain"
)

// MockPlanner is a scripted RoutePlanner for tests and the offline demo
// mode. Responses are keyed by "source|destination" and returned in order;
// the last scripted response repeats once the script is exhausted.
type MockPlanner struct {
	mu      sync.Mutex
	scripts map[string][]*domain.RoutePlanResult
	calls   []domain.RoutePlanRequest
}

func NewMockPlanner() *MockPlanner {
	return &MockPlanner{scripts: make(map[string][]*domain.RoutePlanResult)}
}

// Script queues a response for the given endpoint pair.
func (m *MockPlanner) Script(source, destination string, result *domain.RoutePlanResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := source + "|" + destination
	m.scripts[key] = append(m.scripts[key], result)
}

// Calls returns a copy of every request received so far.
func (m *MockPlanner) Calls() []domain.RoutePlanRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RoutePlanRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockPlanner) Suggest(
	ctx context.Context,
	req domain.RoutePlanRequest,
) (*domain.RoutePlanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	key := req.Source + "|" + req.Destination
	queue := m.scripts[key]
	if len(queue) == 0 {
		return nil, fmt.Errorf("no scripted route for %q -> %q", req.Source, req.Destination)
	}

	next := queue[0]
	if len(queue) > 1 {
		m.scripts[key] = queue[1:]
	}
	return next, nil
}
