// Package health runs the scheduled engine liveness probe. The gateway's
// /healthz endpoint answers on demand; the prober keeps the engine_up gauge
// current between scrapes.
package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"evalhq/hermes/pkg/config"
	"evalhq/hermes/pkg/lifecycle"
)

// StatusRecorder receives probe outcomes. Implemented by the metrics
// collector.
type StatusRecorder interface {
	SetEngineUp(up bool)
}

// Prober pings the bridged engine on a cron schedule.
type Prober struct {
	mgr      *lifecycle.Manager
	recorder StatusRecorder
	timeout  time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewProber builds a prober from health configuration. An empty schedule
// produces a prober whose Start is a no-op; RunOnce still works.
func NewProber(mgr *lifecycle.Manager, cfg config.HealthConfig, recorder StatusRecorder) *Prober {
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{
		mgr:      mgr,
		recorder: recorder,
		timeout:  timeout,
		schedule: cfg.ProbeSchedule,
		logger:   slog.Default().With("component", "health.prober"),
	}
}

// Start registers the probe with the scheduler and begins running it. The
// first probe fires on schedule, not immediately; callers wanting an eager
// reading run RunOnce first.
func (p *Prober) Start() error {
	if p.schedule == "" {
		p.logger.Info("engine probe schedule empty, scheduled probing disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(p.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.RunOnce(ctx)
	}); err != nil {
		return err
	}

	c.Start()
	p.cron = c
	p.logger.Info("engine probe scheduled", "schedule", p.schedule, "timeout", p.timeout.String())
	return nil
}

// RunOnce executes a single probe and reports the outcome.
func (p *Prober) RunOnce(ctx context.Context) bool {
	client, ok := p.mgr.Client()
	if !ok {
		p.recorder.SetEngineUp(false)
		p.logger.Warn("engine probe skipped, bridge degraded")
		return false
	}

	start := time.Now()
	if _, err := client.Ping(ctx); err != nil {
		p.recorder.SetEngineUp(false)
		p.logger.Warn("engine probe failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return false
	}

	p.recorder.SetEngineUp(true)
	p.logger.Debug("engine probe succeeded",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return true
}

// Stop halts the scheduler. Probes already running complete.
func (p *Prober) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}
