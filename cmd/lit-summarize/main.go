package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/summary"
)

func main() {
	storage := flag.String("storage", defaultStorage(), "Corpus storage root (one folder per paper)")
	out := flag.String("out", "summary.json", "Path for the summary artifact")
	flag.Parse()

	snap, err := corpus.NewStore(*storage).LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	summary.WriteReport(os.Stdout, *snap)

	blob, err := json.MarshalIndent(summary.Build(*snap), "", "  ")
	if err != nil {
		log.Fatalf("marshal summary: %v", err)
	}
	if err := os.WriteFile(*out, append(blob, '\n'), 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("summary saved to %s", *out)
}

func defaultStorage() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storage"
	}
	return filepath.Join(home, "Zotero", "storage")
}
