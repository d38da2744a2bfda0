package ports

import "errors"

// PlannerError is a failure reported by the planning service with a
// human-readable detail message.
type PlannerError struct {
	StatusCode int
	Detail     string
}

func (e *PlannerError) Error() string {
	return e.Detail
}

// ErrorDetail extracts the planner's detail message from an error chain,
// or returns an empty string when none is present.
func ErrorDetail(err error) string {
	var pe *PlannerError
	if errors.As(err, &pe) {
		return pe.Detail
	}
	return ""
}
