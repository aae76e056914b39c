package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luxfolio/dealdesk/internal/clock"
	contactdomain "github.com/luxfolio/dealdesk/internal/contact/domain"
	errlogdomain "github.com/luxfolio/dealdesk/internal/errlog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	ContactSvc contactdomain.Service
	ErrlogSvc  errlogdomain.Service
	Config     Config `optional:"true"`
}

// Scheduler drives the periodic housekeeping jobs: refreshing the
// contact cache ahead of its TTL and sweeping old error entries.
type Scheduler struct {
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	contactSvc contactdomain.Service
	errlogSvc  errlogdomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.ContactSvc == nil || p.ErrlogSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler"),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		contactSvc: p.ContactSvc,
		errlogSvc:  p.ErrlogSvc,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	err := fn(ctx)
	elapsed := time.Since(start)

	if err == nil {
		s.log.Debug("job_finished", zap.String("job", name), zap.Duration("elapsed", elapsed))
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		// Soft timeout; the next tick picks up where this one stopped.
		s.log.Warn("job_timed_out",
			zap.String("job", name),
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes every enabled job once and joins their errors.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	if s.isJobEnabled("contact_refresh") {
		err = errors.Join(err, s.runJob(parent, "contact_refresh", s.ContactRefreshJob))
	}
	if s.isJobEnabled("errlog_retention") {
		err = errors.Join(err, s.runJob(parent, "errlog_retention", s.ErrlogRetentionJob))
	}
	return err
}

// RunForever ticks RunOnce until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler_run_failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ContactRefreshJob re-fills the contact cache from the accounting
// platform so searches rarely pay the fetch on a miss.
func (s *Scheduler) ContactRefreshJob(ctx context.Context) error {
	return s.contactSvc.Refresh(ctx)
}

// ErrlogRetentionJob drops error entries past the retention window.
func (s *Scheduler) ErrlogRetentionJob(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.cfg.ErrlogRetention)
	deleted, err := s.errlogSvc.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.log.Info("errlog_swept", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return nil
}

// If EnabledJobs is empty every job runs.
func (s *Scheduler) isJobEnabled(name string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, job := range s.cfg.EnabledJobs {
		if job == name {
			return true
		}
	}
	return false
}
