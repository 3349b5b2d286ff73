package watch

import (
	"context"
	"sync"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
	"github.com/gsanchezu/elasticbox-plugin/internal/health"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

// CheckResult holds the result of a single cloud probe.
type CheckResult struct {
	Cloud     string        `json:"cloud" yaml:"cloud"`
	Status    health.Status `json:"status" yaml:"status"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	CheckedAt time.Time     `json:"checkedAt" yaml:"checkedAt"`
}

// Monitor periodically probes every configured cloud.
type Monitor struct {
	interval time.Duration
	src      descriptor.CloudSource
	auditLog *audit.Logger

	mu     sync.RWMutex
	latest []CheckResult
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAuditLogger sets the audit logger for recording probe results.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(m *Monitor) {
		m.auditLog = logger
	}
}

// NewMonitor creates a new Monitor.
func NewMonitor(interval time.Duration, src descriptor.CloudSource, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		src:      src,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting cloud monitor", "interval", m.interval)

	// Run an immediate check, then loop on interval.
	m.checkAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("cloud monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.checkAll(ctx)
		}
	}
}

// Results returns the outcome of the latest round of probes.
func (m *Monitor) Results() []CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]CheckResult(nil), m.latest...)
}

// checkAll probes all configured clouds.
func (m *Monitor) checkAll(ctx context.Context) []CheckResult {
	var results []CheckResult
	for _, cloud := range m.src.Clouds() {
		if ctx.Err() != nil {
			break
		}

		result := CheckResult{Cloud: cloud.Name, CheckedAt: time.Now()}
		c, err := m.src.Client(ctx, cloud.Name)
		if err != nil {
			result.Status = health.StatusUnreachable
			result.Error = err.Error()
		} else {
			probe := health.CheckCloud(ctx, c)
			result.Status = probe.Status
			result.Latency = probe.Latency
			result.Error = probe.Error()
		}
		results = append(results, result)

		if result.Status != health.StatusReachable {
			logging.Warn("cloud probe failed", logging.KeyCloud, cloud.Name, "status", result.Status, "error", result.Error)
		}
		if m.auditLog != nil {
			_ = m.auditLog.LogEvent(audit.EventCheck, cloud.Name, cloud.Endpoint, string(result.Status))
		}
	}

	m.mu.Lock()
	m.latest = results
	m.mu.Unlock()

	return results
}
