package services

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReport describes process and store health.
type HealthReport struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

func (r HealthReport) Healthy() bool { return r.Status == "ok" }

type HealthService struct {
	db          Pinger
	environment string
	timeout     time.Duration
	now         func() time.Time
}

// NewHealthService reports on db and labels reports with environment.
func NewHealthService(db Pinger, environment string) *HealthService {
	return &HealthService{db: db, environment: environment, timeout: 2 * time.Second, now: time.Now}
}

// Check pings the store with a short deadline.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report := HealthReport{Status: "ok", Timestamp: s.now().UTC(), Environment: s.environment, Database: "connected"}
	if err := s.db.PingContext(ctx); err != nil {
		report.Status = "unhealthy"
		report.Database = "disconnected"
	}
	return report
}
