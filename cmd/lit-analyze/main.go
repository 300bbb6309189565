package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/batch"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/extraction"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/ledger"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/telemetry"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/textextract"
)

func main() {
	storage := flag.String("storage", defaultStorage(), "Corpus storage root (one folder per paper)")
	model := flag.String("model", extraction.DefaultModel, "Model id for structured extraction")
	dryRun := flag.Bool("dry-run", false, "Count pending/done items without calling the service")
	limit := flag.Int("limit", 0, "Process at most N pending items (0 = all)")
	folder := flag.String("folder", "", "Process only the named corpus folder")
	concurrency := flag.Int("concurrency", 1, "Number of items processed in parallel")
	delay := flag.Duration("delay", 500*time.Millisecond, "Pause between consecutive items")
	historyDB := flag.String("history-db", "", "SQLite run-history database (empty = no history)")
	history := flag.Int("history", 0, "Show the last N recorded runs and exit")
	flag.Parse()

	if *history > 0 {
		showHistory(*historyDB, *history)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, "lit-analyze")
	if err != nil {
		log.Fatalf("telemetry setup: %v", err)
	}
	defer shutdown(context.Background())

	cfg := batch.Config{
		StorageRoot: *storage,
		DryRun:      *dryRun,
		Limit:       *limit,
		OnlyFolder:  *folder,
		Concurrency: *concurrency,
		ItemDelay:   *delay,
	}

	var analyzer batch.Analyzer
	if !*dryRun {
		caller, err := extraction.NewAnthropicCallerFromEnv(*model)
		if err != nil {
			log.Fatal(err)
		}
		analyzer = extraction.NewClient(caller, extraction.DefaultRetryPolicy(), *model)
	}

	store := corpus.NewStore(*storage)
	extractor := textextract.NewPDFExtractor(textextract.DefaultMaxChars)

	started := time.Now()
	stats, err := batch.NewRunner(cfg, store, extractor, analyzer).Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if *historyDB != "" && !*dryRun {
		l, err := ledger.Open(*historyDB)
		if err != nil {
			log.Fatalf("open history db: %v", err)
		}
		defer l.Close()
		if _, err := l.RecordRun(started, stats); err != nil {
			log.Fatalf("record run: %v", err)
		}
	}
}

func showHistory(path string, n int) {
	if path == "" {
		log.Fatal("-history requires -history-db")
	}
	l, err := ledger.Open(path)
	if err != nil {
		log.Fatalf("open history db: %v", err)
	}
	defer l.Close()

	runs, err := l.RecentRuns(n)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range runs {
		fmt.Printf("run %d  %s -> %s  total=%d success=%d errors=%d skipped=%d no_pdf=%d too_short=%d\n",
			r.ID, r.StartedAt, r.FinishedAt, r.Total, r.Success, r.Errors, r.Skipped, r.NoPDF, r.TooShort)
	}
}

func defaultStorage() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storage"
	}
	return filepath.Join(home, "Zotero", "storage")
}
