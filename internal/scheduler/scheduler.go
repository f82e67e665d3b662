package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const probeTimeout = 30 * time.Second

// ProbeFunc performs one health check against the upstream provider.
type ProbeFunc func(ctx context.Context) error

// Status describes the outcome of the most recent probe run.
type Status struct {
	// Upstream is "ok", "degraded", "unknown" (no run yet) or "disabled".
	Upstream    string    `json:"upstream"`
	LastChecked time.Time `json:"lastChecked,omitempty"`
}

// Scheduler periodically probes the upstream provider so the health endpoint
// can report reachability without issuing a request of its own.
type Scheduler struct {
	scheduler *gocron.Scheduler
	probe     ProbeFunc
	interval  time.Duration
	logger    *zap.SugaredLogger

	mu      sync.RWMutex
	lastRun time.Time
	lastErr error
}

// New creates a Scheduler running probe every interval. A non-positive
// interval disables probing.
func New(interval time.Duration, probe ProbeFunc, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		probe:     probe,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic probe and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("upstream probe disabled")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.runOnce); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Status reports the outcome of the most recent probe run.
func (s *Scheduler) Status() Status {
	if s.interval <= 0 {
		return Status{Upstream: "disabled"}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastRun.IsZero() {
		return Status{Upstream: "unknown"}
	}
	upstream := "ok"
	if s.lastErr != nil {
		upstream = "degraded"
	}
	return Status{Upstream: upstream, LastChecked: s.lastRun}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	err := s.probe(ctx)

	s.mu.Lock()
	s.lastRun = time.Now().UTC()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warnw("upstream probe failed", "error", err)
	}
}
