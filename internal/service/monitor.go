package service

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	defaultMonitorInterval = 60 * time.Second
	healthCheckTimeout     = 3 * time.Second
)

// ActivityMonitor tracks connection counts and periodically logs a
// "server metrics" line. It implements ports.ConnectionObserver and
// ports.MetricsSource.
type ActivityMonitor struct {
	log      zerolog.Logger
	interval time.Duration
	checkers []ports.HealthChecker
	started  time.Time

	active atomic.Int64
	max    atomic.Int64
	total  atomic.Int64

	proc *process.Process
	cron *cron.Cron
}

func NewActivityMonitor(log zerolog.Logger, interval time.Duration, checkers ...ports.HealthChecker) *ActivityMonitor {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn().Err(err).Msg("process stats unavailable")
	}

	cronLogger := cron.PrintfLogger(&log)
	return &ActivityMonitor{
		log:      log,
		interval: interval,
		checkers: checkers,
		started:  time.Now(),
		proc:     proc,
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger))),
	}
}

func (m *ActivityMonitor) OnConnectionOpen() {
	n := m.active.Add(1)
	m.total.Add(1)
	for {
		cur := m.max.Load()
		if n <= cur || m.max.CompareAndSwap(cur, n) {
			return
		}
	}
}

func (m *ActivityMonitor) OnConnectionClose() {
	m.active.Add(-1)
}

// Snapshot samples the process and dependency health now.
func (m *ActivityMonitor) Snapshot(ctx context.Context) domain.ServerMetrics {
	uptime := time.Since(m.started)
	s := domain.ServerMetrics{
		Uptime:            domain.FormatUptime(uptime),
		UptimeSeconds:     int64(uptime / time.Second),
		Goroutines:        runtime.NumGoroutine(),
		ActiveConnections: m.active.Load(),
		MaxConnections:    m.max.Load(),
		TotalConnections:  m.total.Load(),
		SampledAt:         time.Now(),
	}

	if m.proc != nil {
		if pct, err := m.proc.PercentWithContext(ctx, 0); err == nil {
			s.CPUPercent = pct
		}
		if mem, err := m.proc.MemoryInfoWithContext(ctx); err == nil {
			s.MemoryMB = float64(mem.RSS) / (1024 * 1024)
		}
	}

	if len(m.checkers) > 0 {
		s.Dependencies = make(map[string]string, len(m.checkers))
		for _, hc := range m.checkers {
			pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			if err := hc.Ping(pingCtx); err != nil {
				s.Dependencies[hc.Name()] = "unhealthy"
			} else {
				s.Dependencies[hc.Name()] = "healthy"
			}
			cancel()
		}
	}

	return s
}

func (m *ActivityMonitor) report() {
	s := m.Snapshot(context.Background())

	deps := zerolog.Dict()
	for name, status := range s.Dependencies {
		deps = deps.Str(name, status)
	}

	m.log.Info().
		Str("uptime", s.Uptime).
		Float64("cpu_percent", s.CPUPercent).
		Float64("memory_mb", s.MemoryMB).
		Int("goroutines", s.Goroutines).
		Int64("active_connections", s.ActiveConnections).
		Int64("max_connections", s.MaxConnections).
		Int64("total_connections", s.TotalConnections).
		Dict("dependencies", deps).
		Msg("server metrics")
}

// Start schedules the periodic report.
func (m *ActivityMonitor) Start() error {
	if _, err := m.cron.AddFunc("@every "+m.interval.String(), m.report); err != nil {
		return err
	}
	m.cron.Start()
	m.log.Info().Dur("interval", m.interval).Msg("activity monitor started")
	return nil
}

// Stop stops the schedule and waits for a running report to finish.
func (m *ActivityMonitor) Stop() {
	<-m.cron.Stop().Done()
}
