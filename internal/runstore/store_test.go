package runstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"polyvox/internal/report"
	"polyvox/internal/runstore"
)

func openStore(t *testing.T) *runstore.Store {
	t.Helper()
	store, err := runstore.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := &report.Report{
		RunID:      "run-1",
		StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 1, 10, 0, 42, 0, time.UTC),
		Lines:      120,
		Warnings: []report.Warning{
			{Stage: "timing", Key: "judy/q101/0002.vo", Reason: report.ReasonTimingClamp, Detail: "clamped"},
		},
	}
	first.Resolve()
	if err := store.Record(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := &report.Report{
		RunID:      "run-2",
		StartedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 2, 9, 1, 0, 0, time.UTC),
		Lines:      121,
	}
	second.Resolve()
	if err := store.Record(ctx, second); err != nil {
		t.Fatal(err)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].RunID != "run-2" || recent[1].RunID != "run-1" {
		t.Fatalf("order: %+v", recent)
	}
	if recent[1].Status != report.StatusWarnings || recent[1].Warnings != 1 {
		t.Fatalf("run-1 summary: %+v", recent[1])
	}
	if !recent[1].StartedAt.Equal(first.StartedAt) {
		t.Fatalf("started_at round trip: %v", recent[1].StartedAt)
	}
}

func TestWarningsRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	r := &report.Report{
		RunID:      "run-3",
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		Warnings: []report.Warning{
			{Stage: "lipsync", Key: "v/q101/0001.vo", Reason: report.ReasonSilentLip, Detail: "empty payload"},
			{Stage: "subtitle", Reason: report.ReasonSubtitleMissing},
		},
	}
	r.Resolve()
	if err := store.Record(ctx, r); err != nil {
		t.Fatal(err)
	}

	warnings, err := store.Warnings(ctx, "run-3")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 2 || warnings[0].Reason != report.ReasonSilentLip || warnings[1].Stage != "subtitle" {
		t.Fatalf("warnings: %+v", warnings)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := runstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	r := &report.Report{RunID: "run-4", StartedAt: time.Now().UTC(), FinishedAt: time.Now().UTC()}
	r.Resolve()
	if err := store.Record(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := runstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].RunID != "run-4" {
		t.Fatalf("recent after reopen: %+v", recent)
	}
}
