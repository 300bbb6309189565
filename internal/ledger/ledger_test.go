package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/batch"
)

func TestRecordAndReadBack(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	stats := batch.Stats{
		Total:    3,
		Success:  1,
		TooShort: 1,
		Skipped:  1,
		Elapsed:  90 * time.Second,
		Outcomes: []batch.Outcome{
			{Folder: "AAA", Status: batch.StatusSkipped},
			{Folder: "BBB", Status: batch.StatusTooShort, Filename: "scan.pdf", Chars: 40},
			{Folder: "CCC", Status: batch.StatusSuccess, Filename: "paper.pdf", Chars: 8000},
		},
	}
	started := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	id, err := l.RecordRun(started, stats)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	runs, err := l.RecentRuns(5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Fatalf("runs: %+v", runs)
	}
	r := runs[0]
	if r.Total != 3 || r.Success != 1 || r.TooShort != 1 || r.Skipped != 1 {
		t.Fatalf("run counters: %+v", r)
	}
	if r.StartedAt != "2026-02-01T09:00:00Z" || r.FinishedAt != "2026-02-01T09:01:30Z" {
		t.Fatalf("timestamps: %+v", r)
	}

	items, err := l.RunItems(id)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 items, got %d", len(items))
	}
	if items[0].Folder != "AAA" || items[1].Chars != 40 || items[2].Status != string(batch.StatusSuccess) {
		t.Fatalf("items: %+v", items)
	}
}

func TestRecentRunsOrder(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := l.RecordRun(base.Add(time.Duration(i)*time.Hour), batch.Stats{Total: i}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	runs, err := l.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID <= runs[1].ID {
		t.Fatalf("newest first expected: %+v", runs)
	}
	if runs[0].Total != 2 {
		t.Fatalf("latest run should be the last recorded: %+v", runs)
	}
}
