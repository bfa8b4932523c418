package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index IndexChecker
	tasks DBPinger
}

// New creates a Service. tasks can be nil when the service runs without a
// primary store connection.
func New(index IndexChecker, tasks DBPinger) *Service {
	return &Service{index: index, tasks: tasks}
}

// Check probes the search backend, the current index and the task store.
// A missing index is reported as an error check: queries would 404 until
// the next resync recreates it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.index.TestConnection(ctx) {
		checks["search_backend"] = CheckOK
	} else {
		checks["search_backend"] = CheckError
	}

	if exists, err := s.index.Exists(ctx); err != nil || !exists {
		checks["task_index"] = CheckError
	} else {
		checks["task_index"] = CheckOK
	}

	if s.tasks != nil {
		if err := s.tasks.Ping(ctx); err != nil {
			checks["task_store"] = CheckError
		} else {
			checks["task_store"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
