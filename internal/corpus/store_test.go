package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

func makeItem(t *testing.T, root, folder string, withPDF bool) Item {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	it := Item{Folder: folder, Path: dir}
	if withPDF {
		pdf := filepath.Join(dir, "paper.pdf")
		if err := os.WriteFile(pdf, []byte("%PDF-1.4 stub"), 0o644); err != nil {
			t.Fatal(err)
		}
		it.PDFPath = pdf
	}
	return it
}

func TestScanSortedWithPDFDiscovery(t *testing.T) {
	root := t.TempDir()
	makeItem(t, root, "ZZFOLDER", true)
	makeItem(t, root, "AAFOLDER", false)
	makeItem(t, root, "MMFOLDER", true)
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 folders, got %d", len(items))
	}
	if items[0].Folder != "AAFOLDER" || items[2].Folder != "ZZFOLDER" {
		t.Fatalf("scan order not lexicographic: %v", items)
	}
	if items[0].HasPDF() {
		t.Fatal("AAFOLDER should have no PDF")
	}
	if !items[1].HasPDF() || items[1].PDFName() != "paper.pdf" {
		t.Fatalf("MMFOLDER PDF missing: %+v", items[1])
	}
}

func TestPersistRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	it := makeItem(t, root, "FOLDER1", true)
	store := NewStore(root)

	rec := analysis.FailureRecord(&analysis.Failure{Error: "boom", Filename: "paper.pdf"})
	if err := store.Persist(it, rec); err != nil {
		t.Fatalf("first persist: %v", err)
	}
	if !store.Exists(it) {
		t.Fatal("result should exist after persist")
	}
	if err := store.Persist(it, rec); err == nil {
		t.Fatal("second persist must be refused")
	}
}

func TestClaimIsExclusive(t *testing.T) {
	root := t.TempDir()
	it := makeItem(t, root, "FOLDER1", true)
	store := NewStore(root)

	if err := store.Claim(it); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := store.Claim(it); err != ErrAlreadyClaimed {
		t.Fatalf("second claim should fail with ErrAlreadyClaimed, got %v", err)
	}
	store.Release(it)
	if err := store.Claim(it); err != nil {
		t.Fatalf("claim after release: %v", err)
	}
}

func TestLoadAllNormalizesAndCollectsErrors(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	good := makeItem(t, root, "BFOLDER", true)
	if err := store.Persist(good, analysis.SuccessRecord(&analysis.Paper{
		Title:               "ok",
		PrimaryCategory:     "e. core",
		SecondaryCategories: []string{"d"},
		RelevanceScore:      4,
	})); err != nil {
		t.Fatal(err)
	}

	failed := makeItem(t, root, "CFOLDER", true)
	if err := store.Persist(failed, analysis.FailureRecord(&analysis.Failure{Error: "too short", Filename: "paper.pdf"})); err != nil {
		t.Fatal(err)
	}

	corrupt := makeItem(t, root, "AFOLDER", true)
	if err := os.WriteFile(filepath.Join(corrupt.Path, ResultFilename), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	makeItem(t, root, "DFOLDER", true) // pending, no result

	snap, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(snap.Papers) != 1 || snap.Papers[0].Folder != "BFOLDER" {
		t.Fatalf("unexpected papers: %+v", snap.Papers)
	}
	if snap.Papers[0].PrimaryCategory != "E" || snap.Papers[0].SecondaryCategories[0] != "D" {
		t.Fatalf("snapshot copy not normalized: %+v", snap.Papers[0])
	}
	if len(snap.Failures) != 1 || snap.Failures[0].Error != "too short" {
		t.Fatalf("unexpected failures: %+v", snap.Failures)
	}
	if len(snap.ParseErrors) != 1 || snap.ParseErrors[0].Folder != "AFOLDER" {
		t.Fatalf("unexpected parse errors: %+v", snap.ParseErrors)
	}
}
