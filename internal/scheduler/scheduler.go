package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/mihirvv/jobassist/internal/llm"
)

// HealthChecker re-probes the configured models and reports the outcome.
// Satisfied by *llm.Resolver.
type HealthChecker interface {
	HealthCheck(ctx context.Context) llm.HealthSummary
}

// HealthMonitor owns the background loop that re-probes model health on an
// interval, so the status API stays current while the web server runs.
type HealthMonitor struct {
	checker  HealthChecker
	interval time.Duration
	logger   *slog.Logger
}

// NewHealthMonitor creates a monitor that re-probes at the given interval.
func NewHealthMonitor(checker HealthChecker, interval time.Duration, logger *slog.Logger) *HealthMonitor {
	return &HealthMonitor{
		checker:  checker,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the monitoring loop. It runs one immediate check, then ticks on
// the configured interval. It returns nil when ctx is cancelled.
func (m *HealthMonitor) Run(ctx context.Context) error {
	m.logger.Info("starting health monitor", "interval", m.interval.String())

	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("shutting down health monitor")
			return nil
		case <-time.After(m.interval):
			m.check(ctx)
		}
	}
}

func (m *HealthMonitor) check(ctx context.Context) {
	summary := m.checker.HealthCheck(ctx)
	if !summary.Reachable {
		m.logger.Warn("health check: endpoint unreachable")
		return
	}
	if summary.Healthy == 0 {
		m.logger.Warn("health check: no healthy models", "total", summary.Total)
		return
	}
	m.logger.Debug("health check",
		"healthy", summary.Healthy,
		"total", summary.Total,
	)
}
