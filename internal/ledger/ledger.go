// Package ledger keeps a local history of analysis runs in SQLite so
// repeated invocations can be audited after the fact.
package ledger

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/batch"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	total       INTEGER NOT NULL DEFAULT 0,
	success     INTEGER NOT NULL DEFAULT 0,
	errors      INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	no_pdf      INTEGER NOT NULL DEFAULT 0,
	too_short   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_items (
	run_id   INTEGER NOT NULL,
	folder   TEXT NOT NULL,
	status   TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT '',
	chars    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, folder)
);
`

// Run is one recorded orchestrator invocation.
type Run struct {
	ID         int64  `db:"id"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
	Total      int    `db:"total"`
	Success    int    `db:"success"`
	Errors     int    `db:"errors"`
	Skipped    int    `db:"skipped"`
	NoPDF      int    `db:"no_pdf"`
	TooShort   int    `db:"too_short"`
}

// Item is one per-folder outcome within a recorded run.
type Item struct {
	RunID    int64  `db:"run_id"`
	Folder   string `db:"folder"`
	Status   string `db:"status"`
	Filename string `db:"filename"`
	Chars    int    `db:"chars"`
}

// Ledger is a handle on the run-history database.
type Ledger struct {
	db *sqlx.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Ledger, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun persists a finished run and its per-item outcomes, and
// returns the new run id.
func (l *Ledger) RecordRun(started time.Time, stats batch.Stats) (int64, error) {
	finished := started.Add(stats.Elapsed)
	res, err := l.db.Exec(`INSERT INTO runs (started_at, finished_at, total, success, errors, skipped, no_pdf, too_short)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339),
		stats.Total, stats.Success, stats.Errors, stats.Skipped, stats.NoPDF, stats.TooShort)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	for _, o := range stats.Outcomes {
		if _, err := l.db.Exec(`INSERT OR REPLACE INTO run_items (run_id, folder, status, filename, chars)
			VALUES (?, ?, ?, ?, ?)`,
			id, o.Folder, string(o.Status), o.Filename, o.Chars); err != nil {
			return 0, fmt.Errorf("insert run item %s: %w", o.Folder, err)
		}
	}
	return id, nil
}

// RecentRuns returns the newest n runs, newest first.
func (l *Ledger) RecentRuns(n int) ([]Run, error) {
	var runs []Run
	if err := l.db.Select(&runs, `SELECT * FROM runs ORDER BY id DESC LIMIT ?`, n); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// RunItems returns the per-folder outcomes of one run in folder order.
func (l *Ledger) RunItems(runID int64) ([]Item, error) {
	var items []Item
	if err := l.db.Select(&items, `SELECT * FROM run_items WHERE run_id = ? ORDER BY folder`, runID); err != nil {
		return nil, fmt.Errorf("select run items: %w", err)
	}
	return items, nil
}
