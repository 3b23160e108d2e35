package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/metrics"
)

// Reminder cadence is daily; the lock TTL outlives it so a crashed
// worker cannot leave the cycle permanently blocked.
const defaultInterval = 24 * time.Hour

// ServiceParams configure the worker loop.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service drives every registered job once per interval, guarded by a
// shared lock so overlapping worker replicas do not double-run.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run executes one cycle immediately and then ticks until the context
// is canceled. A failed cycle is logged, never fatal.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "cron cycle failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "cron cycle failed", err)
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	held, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !held {
		s.logg.Info(ctx, "cron lock held elsewhere, skipping cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release cron lock", relErr)
		}
	}()

	var failed int
	jobs := s.registry.Jobs()
	for _, job := range jobs {
		if !s.runJob(ctx, job) {
			failed++
		}
	}
	cycleCtx := s.logg.WithFields(ctx, map[string]any{
		"jobs":   len(jobs),
		"failed": failed,
	})
	s.logg.Info(cycleCtx, "cron cycle complete")
	return nil
}

// runJob reports whether the job succeeded; one bad job never stops
// the rest of the cycle.
func (s *Service) runJob(ctx context.Context, job Job) bool {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	s.logg.Info(jobCtx, "job start")

	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveDuration(job.Name(), elapsed)
	}
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncFailure(job.Name())
		}
		s.logg.Error(jobCtx, "job failed", err)
		return false
	}
	if s.metrics != nil {
		s.metrics.IncSuccess(job.Name())
	}
	s.logg.Info(jobCtx, "job completed")
	return true
}
