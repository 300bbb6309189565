package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/outline"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/summary"
)

func main() {
	storage := flag.String("storage", defaultStorage(), "Corpus storage root (one folder per paper)")
	outDir := flag.String("out", ".", "Directory for the generated artifacts")
	rulesPath := flag.String("rules", "", "TOML technique rule table (empty = built-in rules)")
	renderHTML := flag.Bool("html", false, "Also render the outline as HTML")
	renderPDF := flag.Bool("pdf", false, "Also render the outline as PDF (needs Chromium)")
	flag.Parse()

	rules := analysis.DefaultTechniqueRules()
	if *rulesPath != "" {
		loaded, err := analysis.LoadRuleTable(*rulesPath)
		if err != nil {
			log.Fatalf("load rule table: %v", err)
		}
		rules = loaded
	}

	snap, err := corpus.NewStore(*storage).LoadAll()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d papers (%d parse errors)", len(snap.Papers), len(snap.ParseErrors))

	data := outline.Collect(*snap, rules)
	doc := outline.Build(data)

	writeFile(filepath.Join(*outDir, "review_outline.md"), []byte(doc))
	writeJSON(filepath.Join(*outDir, "core_papers.json"), data.Core)
	writeJSON(filepath.Join(*outDir, "background_papers.json"), data.BackgroundReps)

	if *renderHTML {
		html, err := outline.RenderHTML(doc)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
		writeFile(filepath.Join(*outDir, "review_outline.html"), []byte(html))
	}

	if *renderPDF {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		pdf, err := outline.NewPDFRenderer().Render(ctx, doc)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		writeFile(filepath.Join(*outDir, "review_outline.pdf"), pdf)
	}

	summary.WriteGroupReport(os.Stdout, data.Groups, data.Singletons)
}

func writeFile(path string, blob []byte) {
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	log.Printf("saved %s", path)
}

func writeJSON(path string, v any) {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal %s: %v", path, err)
	}
	writeFile(path, append(blob, '\n'))
}

func defaultStorage() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storage"
	}
	return filepath.Join(home, "Zotero", "storage")
}
