package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_OpenInitializesSchemaAndInsertList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	first, err := store.InsertRun(Run{
		Timestamp:          base,
		Mode:               "write",
		FilesScanned:       12,
		FilesChanged:       4,
		CallSites:          30,
		CallSitesRewritten: 25,
		ImportsAdded:       18,
		Unresolved:         2,
	})
	if err != nil {
		t.Fatalf("insert first run: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated run id")
	}
	if first.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, first.SchemaVersion)
	}

	second, err := store.InsertRun(Run{
		Timestamp:          base.Add(2 * time.Hour),
		Mode:               "dry-run",
		FilesScanned:       12,
		FilesChanged:       0,
		CallSites:          5,
		CallSitesRewritten: 5,
		ImportsAdded:       3,
		Unresolved:         0,
	})
	if err != nil {
		t.Fatalf("insert second run: %v", err)
	}

	runs, err := store.ListRuns(time.Time{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first.ID || runs[1].ID != second.ID {
		t.Fatalf("unexpected run order: %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[0].CallSitesRewritten != 25 {
		t.Fatalf("expected 25 rewritten call sites, got %d", runs[0].CallSitesRewritten)
	}
	if !runs[1].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected second timestamp: %v", runs[1].Timestamp)
	}

	filtered, err := store.ListRuns(base.Add(time.Hour))
	if err != nil {
		t.Fatalf("list runs since: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != second.ID {
		t.Fatalf("expected only the second run, got %d", len(filtered))
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	runs := []Run{
		{Timestamp: base, CallSites: 40, CallSitesRewritten: 30, Unresolved: 4},
		{Timestamp: base.Add(time.Hour), CallSites: 10, CallSitesRewritten: 10, Unresolved: 1},
	}

	report, err := BuildTrendReport(runs, 24*time.Hour)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.RunCount != 2 {
		t.Fatalf("expected 2 points, got %d", report.RunCount)
	}

	second := report.Points[1]
	if second.DeltaCallSites != -30 {
		t.Fatalf("expected delta call sites -30, got %d", second.DeltaCallSites)
	}
	if second.DeltaUnresolved != -3 {
		t.Fatalf("expected delta unresolved -3, got %d", second.DeltaUnresolved)
	}
	if second.RewritePct != 100 {
		t.Fatalf("expected rewrite pct 100, got %v", second.RewritePct)
	}
	if second.AvgCallSites != 25 {
		t.Fatalf("expected avg call sites 25, got %v", second.AvgCallSites)
	}
}

func TestBuildTrendReportEmpty(t *testing.T) {
	if _, err := BuildTrendReport(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty run list")
	}
}
