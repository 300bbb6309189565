// Package corpus models the on-disk library layout: one folder per paper
// under a storage root, the source PDF inside it, and a per-folder
// analysis.json result slot that doubles as the "already done" marker.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResultFilename is the per-item result slot inside each folder.
const ResultFilename = "analysis.json"

// Item is one document to analyze. Items are discovered at scan time and
// never persisted themselves.
type Item struct {
	// Folder is the stable corpus identifier (the directory name).
	Folder string
	// Path is the folder's absolute path.
	Path string
	// PDFPath is the source document, empty when the folder has none.
	PDFPath string
}

// HasPDF reports whether a source document was discovered for the item.
func (it Item) HasPDF() bool { return it.PDFPath != "" }

// PDFName is the base name of the source document, or "?" when absent.
func (it Item) PDFName() string {
	if it.PDFPath == "" {
		return "?"
	}
	return filepath.Base(it.PDFPath)
}

// Scan enumerates the storage root. Items come back sorted by folder name
// so load order is deterministic across runs. The first PDF in
// lexicographic order is taken as the item's source document.
func Scan(root string) ([]Item, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name())
		items = append(items, Item{
			Folder:  e.Name(),
			Path:    path,
			PDFPath: findPDF(path),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Folder < items[j].Folder })
	return items, nil
}

func findPDF(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, e.Name())
		}
	}
	if len(pdfs) == 0 {
		return ""
	}
	sort.Strings(pdfs)
	return filepath.Join(dir, pdfs[0])
}
