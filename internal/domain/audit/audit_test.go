package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"kpiassess/internal/platform/config"
	"kpiassess/internal/platform/db"
)

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{})
	if query != "SELECT COUNT(1) FROM report_events WHERE 1=1" || len(args) != 0 {
		t.Fatalf("unexpected unfiltered query %q %v", query, args)
	}

	query, args = buildBaseQuery("SELECT COUNT(1)", Filter{Action: ActionReportGenerated, Variant: "extended"})
	want := "SELECT COUNT(1) FROM report_events WHERE 1=1 AND action = $1 AND variant = $2"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if len(args) != 2 || args[0] != ActionReportGenerated || args[1] != "extended" {
		t.Fatalf("unexpected args %v", args)
	}

	query, args = buildBaseQuery("SELECT 1", Filter{Variant: "standard"})
	if query != "SELECT 1 FROM report_events WHERE 1=1 AND variant = $1" || len(args) != 1 {
		t.Fatalf("expected variant to take the first placeholder, got %q %v", query, args)
	}
}

func TestRecordAndList(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dsn})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, filepath.Join("..", "..", "..", "migrations")); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	svc := New(pool)
	variant := "test-" + uuid.NewString()
	if err := svc.Record(ctx, Event{Variant: variant, OverallScore: 72.5, RequestID: "req-1", IP: "203.0.113.1"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	total, err := svc.Count(ctx, Filter{Variant: variant})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 event, got %d", total)
	}
	events, err := svc.List(ctx, Filter{Variant: variant, Action: ActionReportGenerated}, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 1 || events[0].OverallScore != 72.5 {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestRecordKeepsScoresAboveOneHundred(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dsn})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, filepath.Join("..", "..", "..", "migrations")); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Ratios are unbounded: 1000 of 1 planned tasks scores an overall of 18750%.
	svc := New(pool)
	variant := "test-" + uuid.NewString()
	if err := svc.Record(ctx, Event{Variant: variant, OverallScore: 18750.25}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	events, err := svc.List(ctx, Filter{Variant: variant}, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 1 || events[0].OverallScore != 18750.25 {
		t.Fatalf("expected large score to round-trip, got %+v", events)
	}
}
