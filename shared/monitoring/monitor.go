// Package monitoring tracks the health of the refresher's scheduled runs
// and serves it over a small HTTP probe.
package monitoring

import (
	"fmt"
	"sync"
	"time"

	"vidscope/shared/logger"
)

// Monitor records the outcome of the most recent run. Partial failures do
// not flip the health status; only a failed run does.
type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	log            *logger.Logger
}

func NewMonitor(log *logger.Logger) *Monitor {
	return &Monitor{log: log.With("component", "monitor")}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.mu.Unlock()

	m.log.Info("run completed", "summary", summary, "duration", duration)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	m.log.Warn("partial failure", "error", err, "duration", duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.mu.Unlock()

	m.log.Error("critical failure", "error", err, "duration", duration)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // no runs yet
	}
	return m.lastRunSuccess
}

func (m *Monitor) StatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "no runs yet"
	}
	if m.lastRunSuccess {
		return fmt.Sprintf("last run ok at %s", m.lastRunTime.Format("Jan 2 15:04"))
	}
	return fmt.Sprintf("last run failed at %s", m.lastRunTime.Format("Jan 2 15:04"))
}
