// Package health aggregates component health checks for the liveness
// endpoint.
package health

import (
	"context"

	"github.com/leadscout/leadscout/internal/cache"
)

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
	// CheckWarning indicates a component running outside its budget.
	CheckWarning CheckResult = "warning"
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
	store StorePinger
	cache CacheInspector
}

// New creates a Service. cache can be nil.
func New(store StorePinger, cache CacheInspector) *Service {
	return &Service{store: store, cache: cache}
}

// Check runs health checks against all components. A cache warning degrades
// the aggregate; only hard failures count as errors.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
	} else {
		checks["store"] = CheckOK
	}

	if s.cache != nil {
		switch s.cache.Health().Status {
		case cache.StatusHealthy:
			checks["cache"] = CheckOK
		case cache.StatusWarning:
			checks["cache"] = CheckWarning
		default:
			checks["cache"] = CheckError
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
