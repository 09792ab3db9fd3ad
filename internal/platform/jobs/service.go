package jobs

import (
	"context"
	"log/slog"
	"time"
)

const JobAuditRetention = "audit_retention"

// Pruner deletes trail rows created before the cutoff and reports how many
// were removed.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Service struct {
	pruner    Pruner
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func New(pruner Pruner, interval, retention time.Duration) *Service {
	return &Service{
		pruner:    pruner,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start runs the retention sweep in the background until ctx is done. It is
// a no-op when either duration is zero.
func (s *Service) Start(ctx context.Context) {
	if s.pruner == nil || s.interval <= 0 || s.retention <= 0 {
		return
	}
	go s.scheduleRetention(ctx)
}

func (s *Service) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	start := time.Now()
	removed, err := s.pruner.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	slog.Info("job completed",
		"jobType", JobAuditRetention,
		"removed", removed,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return removed, nil
}

func (s *Service) scheduleRetention(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Warn("job run failed", "jobType", JobAuditRetention, "err", err)
			}
		}
	}
}
