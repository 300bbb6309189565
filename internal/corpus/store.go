package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

// claimTTL bounds how long a claim from a crashed worker blocks an item.
const claimTTL = time.Hour

// ErrAlreadyClaimed is returned when another worker holds the item.
var ErrAlreadyClaimed = errors.New("item already claimed")

// Store is the persisted result store, keyed by folder. Each item owns
// exactly one result slot; once written it is never overwritten.
type Store struct {
	root string
}

func NewStore(root string) *Store { return &Store{root: root} }

func (s *Store) resultPath(it Item) string {
	return filepath.Join(it.Path, ResultFilename)
}

func (s *Store) claimPath(it Item) string {
	return filepath.Join(it.Path, ResultFilename+".claim")
}

// Exists reports whether the item already carries a persisted result,
// success or error alike. Content validity is deliberately not checked.
func (s *Store) Exists(it Item) bool {
	_, err := os.Stat(s.resultPath(it))
	return err == nil
}

// Claim takes the per-item processing claim with an exclusive
// create-if-absent, making the exists-check-then-write sequence atomic
// under concurrent workers. A claim left behind by a crashed run is broken
// after claimTTL.
func (s *Store) Claim(it Item) error {
	path := s.claimPath(it)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		fmt.Fprintf(f, "pid=%d claimed_at=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
		return f.Close()
	}
	if !errors.Is(err, os.ErrExist) {
		return err
	}
	info, statErr := os.Stat(path)
	if statErr == nil && time.Since(info.ModTime()) > claimTTL {
		_ = os.Remove(path)
		f, retryErr := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if retryErr != nil {
			return ErrAlreadyClaimed
		}
		fmt.Fprintf(f, "pid=%d claimed_at=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
		return f.Close()
	}
	return ErrAlreadyClaimed
}

// Release drops the item's claim.
func (s *Store) Release(it Item) {
	_ = os.Remove(s.claimPath(it))
}

// Persist writes the item's result slot via temp-file-and-rename. It
// refuses to overwrite an existing result: the first write wins, which is
// what makes re-runs side-effect free.
func (s *Store) Persist(it Item, rec analysis.Record) error {
	path := s.resultPath(it)
	if s.Exists(it) {
		return fmt.Errorf("result for %s already exists", it.Folder)
	}
	blob, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ParseError records a result slot that could not be decoded during a
// snapshot load. The offending item is excluded from statistics but
// listed so the operator can audit it.
type ParseError struct {
	Folder string
	Err    error
}

// Snapshot is the full, stable view of the persisted corpus taken at the
// start of an aggregation run.
type Snapshot struct {
	// Papers are the successfully analyzed records in folder order, with
	// taxonomy fields already normalized on the in-memory copies.
	Papers []*analysis.Paper
	// Failures are persisted error records (too-short, exhausted retries).
	Failures []*analysis.Failure
	// ParseErrors are result slots that failed to decode.
	ParseErrors []ParseError
}

// LoadAll reads every persisted result under the root into a snapshot.
// Folder order is lexicographic, so downstream ranking tie-breaks are
// stable across runs.
func (s *Store) LoadAll() (*Snapshot, error) {
	items, err := Scan(s.root)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	for _, it := range items {
		blob, err := os.ReadFile(s.resultPath(it))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			snap.ParseErrors = append(snap.ParseErrors, ParseError{Folder: it.Folder, Err: err})
			continue
		}
		var rec analysis.Record
		if err := json.Unmarshal(blob, &rec); err != nil {
			snap.ParseErrors = append(snap.ParseErrors, ParseError{Folder: it.Folder, Err: err})
			continue
		}
		if rec.IsFailure() {
			snap.Failures = append(snap.Failures, rec.Failure)
			continue
		}
		p := rec.Paper
		p.Folder = it.Folder
		p.Normalize()
		snap.Papers = append(snap.Papers, p)
	}
	sort.SliceStable(snap.Papers, func(i, j int) bool {
		return snap.Papers[i].Folder < snap.Papers[j].Folder
	})
	return snap, nil
}
