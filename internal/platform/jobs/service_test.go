package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
	err     error
}

func (s *stubPruner) Prune(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, before)
	return s.removed, s.err
}

func (s *stubPruner) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cutoffs)
}

func TestRunOnceUsesRetentionCutoff(t *testing.T) {
	pruner := &stubPruner{removed: 3}
	svc := New(pruner, time.Hour, 30*24*time.Hour)
	now := time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	removed, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if want := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC); !pruner.cutoffs[0].Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, pruner.cutoffs[0])
	}
}

func TestRunOnceReturnsPrunerError(t *testing.T) {
	svc := New(&stubPruner{err: errors.New("db down")}, time.Hour, time.Hour)
	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartSchedulesUntilCancelled(t *testing.T) {
	pruner := &stubPruner{}
	ctx, cancel := context.WithCancel(context.Background())
	New(pruner, 10*time.Millisecond, time.Hour).Start(ctx)

	deadline := time.Now().Add(time.Second)
	for pruner.calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if pruner.calls() < 2 {
		t.Fatalf("expected repeated runs, got %d", pruner.calls())
	}
}

func TestStartDisabled(t *testing.T) {
	pruner := &stubPruner{}
	New(pruner, 0, time.Hour).Start(context.Background())
	New(pruner, time.Millisecond, 0).Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	if pruner.calls() != 0 {
		t.Fatalf("expected no runs, got %d", pruner.calls())
	}
}
