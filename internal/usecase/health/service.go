package health

import (
	"context"

	"github.com/kailas-cloud/entdoc/internal/version"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the store is reachable but no entity type is defined.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable.
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

// Report aggregates health check results.
type Report struct {
	Status      Status
	Checks      map[string]CheckResult
	EntityTypes []string
	Version     string
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	schemas SchemaLister
}

// New creates a Service. schemas can be nil.
func New(db DBPinger, schemas SchemaLister) *Service {
	return &Service{db: db, schemas: schemas}
}

// Check pings the store and inspects the schema registry.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	var types []string
	if s.schemas != nil {
		types = s.schemas.EntityTypes()
		if len(types) == 0 {
			checks["schemas"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["schemas"] = CheckOK
		}
	}

	return Report{
		Status:      status,
		Checks:      checks,
		EntityTypes: types,
		Version:     version.String(),
	}
}
