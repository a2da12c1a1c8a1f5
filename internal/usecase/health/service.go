package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the shared cache is down; searches still run uncached.
	Degraded Status = "degraded"
	// Unhealthy indicates the record store is down and no search can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const defaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      Pinger
	cache   Pinger
	timeout time.Duration
}

// New creates a Service. cache can be nil when no shared cache is configured.
func New(db, cache Pinger) *Service {
	return &Service{db: db, cache: cache, timeout: defaultCheckTimeout}
}

// Check pings every component, each bounded by its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"database": s.ping(ctx, s.db)}
	if s.cache != nil {
		checks["cache"] = s.ping(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks["database"] == CheckError:
		status = Unhealthy
	case checks["cache"] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
