// Package textextract turns a source PDF into bounded plain text for the
// extraction service. Failures are reported inside the text itself so the
// orchestrator always receives a string it can length-check.
package textextract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPDFBytes guards against pathological inputs.
	MaxPDFBytes = 20 * 1024 * 1024
	// DefaultMaxChars caps extracted text (~7,500 tokens).
	DefaultMaxChars = 30000
	// TruncationMarker is appended whenever the cap is hit.
	TruncationMarker = "\n\n[Text truncated — above is the first portion]"
)

// Result is the extracted text for one document.
type Result struct {
	Text      string
	Method    string
	Truncated bool
	Failed    bool
}

// Extractor produces bounded plain text from a document path.
type Extractor interface {
	Extract(ctx context.Context, path string) Result
}

// PDFExtractor extracts text with pdftotext and falls back to scanning the
// raw bytes for printable runs when the tool is unavailable or fails.
type PDFExtractor struct {
	MaxChars int
}

func NewPDFExtractor(maxChars int) *PDFExtractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &PDFExtractor{MaxChars: maxChars}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return failure(err)
	}
	if info.Size() > MaxPDFBytes {
		return failure(fmt.Errorf("pdf too large: %d bytes", info.Size()))
	}

	if text, err := runPdfToText(ctx, path); err == nil && strings.TrimSpace(text) != "" {
		return e.truncate(text, "pdftotext")
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return failure(err)
	}
	fallback := extractPrintableText(blob)
	if strings.TrimSpace(fallback) == "" {
		return failure(fmt.Errorf("no extractable text found"))
	}
	return e.truncate(fallback, "byte-fallback")
}

func failure(err error) Result {
	return Result{
		Text:   fmt.Sprintf("[PDF text extraction failed: %v]", err),
		Method: "none",
		Failed: true,
	}
}

func runPdfToText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func extractPrintableText(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) >= 24 {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range blob {
		r := rune(c)
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	joined := strings.Join(runs, "\n")
	joined = strings.ReplaceAll(joined, "\x00", "")
	return strings.TrimSpace(joined)
}

func (e *PDFExtractor) truncate(text, method string) Result {
	trimmed := strings.TrimSpace(text)
	// The cap is in characters, not bytes, so CJK-heavy papers keep the
	// same amount of content as English ones.
	if utf8.RuneCountInString(trimmed) <= e.MaxChars {
		return Result{Text: trimmed, Method: method}
	}
	runes := []rune(trimmed)
	return Result{
		Text:      string(runes[:e.MaxChars]) + TruncationMarker,
		Method:    method,
		Truncated: true,
	}
}
