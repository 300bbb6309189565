// Package batch drives idempotent, failure-resilient analysis of the whole
// corpus: it decides which items are pending, short-circuits hopeless ones,
// invokes the extraction client, and persists exactly one result per item.
package batch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/textextract"
)

// Status classifies the outcome of one item in a run.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusSkipped  Status = "skipped"
	StatusNoPDF    Status = "no_pdf"
	StatusTooShort Status = "too_short"
	StatusAborted  Status = "aborted"
)

// Analyzer is the structured-extraction boundary the runner drives. A
// returned error means the run is shutting down and nothing was recorded
// for the item.
type Analyzer interface {
	Analyze(ctx context.Context, text, filename string) (analysis.Record, error)
}

// Config is built once at startup and passed in; the runner reads no
// ambient state.
type Config struct {
	StorageRoot   string
	DryRun        bool
	Limit         int    // 0 = all pending
	OnlyFolder    string // restrict the run to a single item
	Concurrency   int    // <=1 means serial
	MinTextChars  int    // below this, persist an error without a service call
	ItemDelay     time.Duration
	ProgressEvery int
}

func (c Config) withDefaults() Config {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.MinTextChars <= 0 {
		c.MinTextChars = 100
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = 10
	}
	return c
}

// Outcome is one item's result, kept for the run ledger.
type Outcome struct {
	Folder   string
	Status   Status
	Filename string
	Chars    int
}

// Stats are the aggregate counters for one run.
type Stats struct {
	Total       int
	WithPDF     int
	AlreadyDone int
	Pending     int

	Success  int
	Errors   int
	Skipped  int
	NoPDF    int
	TooShort int
	Aborted  int

	Elapsed  time.Duration
	Outcomes []Outcome
}

func (s *Stats) add(o Outcome) {
	switch o.Status {
	case StatusSuccess:
		s.Success++
	case StatusError:
		s.Errors++
	case StatusSkipped:
		s.Skipped++
	case StatusNoPDF:
		s.NoPDF++
	case StatusTooShort:
		s.TooShort++
	case StatusAborted:
		s.Aborted++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Runner executes one batch run over the corpus.
type Runner struct {
	cfg       Config
	store     *corpus.Store
	extractor textextract.Extractor
	analyzer  Analyzer

	sleep func(time.Duration)
	now   func() time.Time
}

func NewRunner(cfg Config, store *corpus.Store, extractor textextract.Extractor, analyzer Analyzer) *Runner {
	return &Runner{
		cfg:       cfg.withDefaults(),
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// Run processes every pending item. Item-level failures are recorded as
// data; only an unreadable corpus root returns an error.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	items, err := corpus.Scan(r.cfg.StorageRoot)
	if err != nil {
		return Stats{}, err
	}
	if r.cfg.OnlyFolder != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.Folder == r.cfg.OnlyFolder {
				filtered = append(filtered, it)
			}
		}
		items = filtered
		if len(items) == 0 {
			return Stats{}, fmt.Errorf("folder %q not found under %s", r.cfg.OnlyFolder, r.cfg.StorageRoot)
		}
	}

	stats := Stats{Total: len(items)}
	var pending, done, missing []corpus.Item
	for _, it := range items {
		if it.HasPDF() {
			stats.WithPDF++
		}
		switch {
		case r.store.Exists(it):
			done = append(done, it)
		case !it.HasPDF():
			missing = append(missing, it)
		default:
			pending = append(pending, it)
		}
	}
	stats.AlreadyDone = len(done)
	stats.Pending = len(pending)

	log.Printf("corpus: total=%d with_pdf=%d already_done=%d to_process=%d",
		stats.Total, stats.WithPDF, stats.AlreadyDone, stats.Pending)

	if r.cfg.DryRun {
		log.Printf("dry run: no extraction or service calls")
		return stats, nil
	}

	// Items that need no work are still accounted for, but without the
	// inter-request delay or a progress line.
	for _, it := range done {
		stats.add(Outcome{Folder: it.Folder, Status: StatusSkipped})
	}
	for _, it := range missing {
		stats.add(Outcome{Folder: it.Folder, Status: StatusNoPDF})
	}

	if r.cfg.Limit > 0 && len(pending) > r.cfg.Limit {
		pending = pending[:r.cfg.Limit]
	}

	start := r.now()
	var mu sync.Mutex
	completed := 0

	process := func(ctx context.Context, it corpus.Item) {
		o := r.processOne(ctx, it)
		mu.Lock()
		stats.add(o)
		completed++
		n := completed
		success, errs, short := stats.Success, stats.Errors, stats.TooShort
		mu.Unlock()

		if n%r.cfg.ProgressEvery == 0 {
			elapsed := r.now().Sub(start)
			rate := float64(n) / elapsed.Seconds()
			eta := time.Duration(0)
			if rate > 0 {
				eta = time.Duration(float64(len(pending)-n)/rate) * time.Second
			}
			log.Printf("progress: %d/%d | success=%d error=%d short=%d | ETA %.1f min",
				n, len(pending), success, errs, short, eta.Minutes())
		}
		r.sleep(r.cfg.ItemDelay)
	}

	if r.cfg.Concurrency <= 1 {
		for i, it := range pending {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[%d/%d] %s", i+1, len(pending), it.PDFName())
			process(ctx, it)
		}
	} else {
		jobs := make(chan corpus.Item)
		var wg sync.WaitGroup
		for w := 0; w < r.cfg.Concurrency; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for it := range jobs {
					process(ctx, it)
				}
			}()
		}
		for _, it := range pending {
			if ctx.Err() != nil {
				break
			}
			jobs <- it
		}
		close(jobs)
		wg.Wait()
	}

	stats.Elapsed = r.now().Sub(start)
	if stats.Aborted > 0 {
		log.Printf("interrupted: %d item(s) left pending for the next run", stats.Aborted)
	}
	log.Printf("done in %.1f min: success=%d skipped=%d no_pdf=%d too_short=%d failed=%d",
		stats.Elapsed.Minutes(), stats.Success, stats.Skipped, stats.NoPDF, stats.TooShort, stats.Errors)
	return stats, nil
}

// processOne applies the per-item policy. The claim makes the
// exists-check-then-write sequence atomic when workers run concurrently.
func (r *Runner) processOne(ctx context.Context, it corpus.Item) Outcome {
	tracer := otel.Tracer("litreview/batch")
	ctx, span := tracer.Start(ctx, "analyze-item")
	span.SetAttributes(attribute.String("corpus.folder", it.Folder))
	defer span.End()

	if r.store.Exists(it) {
		return Outcome{Folder: it.Folder, Status: StatusSkipped}
	}
	if !it.HasPDF() {
		return Outcome{Folder: it.Folder, Status: StatusNoPDF}
	}
	if err := r.store.Claim(it); err != nil {
		// Another worker or process holds the item.
		return Outcome{Folder: it.Folder, Status: StatusSkipped}
	}
	defer r.store.Release(it)
	if r.store.Exists(it) {
		return Outcome{Folder: it.Folder, Status: StatusSkipped}
	}

	filename := it.PDFName()
	extracted := r.extractor.Extract(ctx, it.PDFPath)
	// Character count, not bytes. CJK text is three bytes per character
	// and would otherwise slip past the threshold.
	if utf8.RuneCountInString(extracted.Text) < r.cfg.MinTextChars {
		chars := utf8.RuneCountInString(extracted.Text)
		rec := analysis.FailureRecord(&analysis.Failure{
			Error:          "Extracted text too short — likely a scanned PDF",
			Filename:       filename,
			ExtractedChars: &chars,
		})
		if err := r.store.Persist(it, rec); err != nil {
			log.Printf("persist %s: %v", it.Folder, err)
			return Outcome{Folder: it.Folder, Status: StatusError, Filename: filename, Chars: chars}
		}
		return Outcome{Folder: it.Folder, Status: StatusTooShort, Filename: filename, Chars: chars}
	}

	rec, err := r.analyzer.Analyze(ctx, extracted.Text, filename)
	if err != nil {
		// Shutdown mid-item. Nothing was persisted, so the item stays
		// pending and the next run picks it up.
		return Outcome{Folder: it.Folder, Status: StatusAborted, Filename: filename}
	}
	if err := r.store.Persist(it, rec); err != nil {
		log.Printf("persist %s: %v", it.Folder, err)
		return Outcome{Folder: it.Folder, Status: StatusError, Filename: filename}
	}
	status := StatusSuccess
	if rec.IsFailure() {
		status = StatusError
	}
	return Outcome{Folder: it.Folder, Status: status, Filename: filename, Chars: utf8.RuneCountInString(extracted.Text)}
}
