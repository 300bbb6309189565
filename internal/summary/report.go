package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
)

const reportWidth = 60

// WriteReport renders the console statistics report over a snapshot:
// the distributions, the crosstab, and the core reading list.
func WriteReport(w io.Writer, snap corpus.Snapshot) {
	papers := snap.Papers

	line := strings.Repeat("=", reportWidth)
	rule := strings.Repeat("-", reportWidth)

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "Literature Analysis Summary")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "\nLoaded: %d papers | Parse errors: %d\n", len(papers), len(snap.ParseErrors))

	if len(snap.ParseErrors) > 0 {
		fmt.Fprintln(w, "\nFailed to parse:")
		shown := snap.ParseErrors
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, pe := range shown {
			fmt.Fprintf(w, "  - %s: %v\n", pe.Folder, pe.Err)
		}
		if extra := len(snap.ParseErrors) - len(shown); extra > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", extra)
		}
	}

	section(w, rule, "1. Primary Category Distribution")
	for _, cc := range CategoryDistribution(papers) {
		label := ""
		if cc.Label != "" {
			label = fmt.Sprintf(" (%s)", cc.Label)
		}
		fmt.Fprintf(w, "  %s%s: %4d (%5.1f%%) %s\n", cc.Category, label, cc.Count, cc.Percent, bar(int(cc.Percent/2)))
	}

	section(w, rule, "2. Relevance Score Distribution (1-5)")
	rel := RelevanceDistribution(papers)
	for _, c := range rel {
		pct := percent(c.N, len(papers))
		fmt.Fprintf(w, "  %s: %4d (%5.1f%%) %s\n", c.Label, c.N, pct, bar(int(pct/2)))
	}

	section(w, rule, "3. Secondary Category Distribution (multi-select)")
	for _, c := range SecondaryDistribution(papers) {
		fmt.Fprintf(w, "  %s: %4d\n", c.Label, c.N)
	}

	section(w, rule, fmt.Sprintf("4. Top ML Methods (Top %d)", TopReport))
	for _, c := range topK(MethodCounts(papers), TopReport) {
		fmt.Fprintf(w, "  %s: %d\n", c.Label, c.N)
	}

	section(w, rule, fmt.Sprintf("5. Top Core Techniques (Top %d)", TopReport))
	for _, c := range topK(TechniqueCounts(papers), TopReport) {
		fmt.Fprintf(w, "  %s: %d\n", c.Label, c.N)
	}

	section(w, rule, "6. Year Distribution")
	for _, c := range YearDistribution(papers) {
		fmt.Fprintf(w, "  %s: %3d %s\n", c.Label, c.N, bar(c.N/2))
	}

	section(w, rule, "7. Language Distribution")
	for _, c := range LanguageDistribution(papers) {
		fmt.Fprintf(w, "  %s: %d\n", c.Label, c.N)
	}

	section(w, rule, "8. Category x Relevance Score Crosstab")
	fmt.Fprintf(w, "  %-6s", "Cat")
	for s := 1; s <= 5; s++ {
		fmt.Fprintf(w, "  %4d", s)
	}
	fmt.Fprintf(w, "  %6s\n", "Total")
	for _, row := range Crosstab(papers) {
		fmt.Fprintf(w, "  %-6s", row.Category)
		for _, n := range row.Cells {
			fmt.Fprintf(w, "  %4d", n)
		}
		fmt.Fprintf(w, "  %6d\n", row.Total)
	}

	core := CorePapers(papers)
	section(w, rule, fmt.Sprintf("9. Core Papers (Category %s + score >= %d): %d papers", CoreCategory, CoreMinScore, len(core)))
	shown := core
	if len(shown) > 20 {
		shown = shown[:20]
	}
	for _, p := range shown {
		fmt.Fprintf(w, "  [%d] %s (%d)\n", p.RelevanceScore.Int(), clip(p.Title, 60), p.Year.Int())
		if methods := firstN(p.MLMethods, 3); len(methods) > 0 {
			fmt.Fprintf(w, "      Methods: %s\n", strings.Join(methods, ", "))
		}
	}
	if extra := len(core) - len(shown); extra > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", extra)
	}
}

// WriteGroupReport renders the per-technique statistics printed after
// the outline artifacts are generated.
func WriteGroupReport(w io.Writer, groups, singletons []TechniqueGroup) {
	line := strings.Repeat("=", reportWidth)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "Solution Papers by Technique (D+E)")
	fmt.Fprintln(w, line)
	for _, g := range append(append([]TechniqueGroup(nil), groups...), singletons...) {
		fmt.Fprintf(w, "  %s: %d papers (E=%d, D=%d)\n", g.Technique, len(g.Papers), g.ECount, g.DCount)
	}
}

func section(w io.Writer, rule, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func bar(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("#", n)
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func firstN(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, it := range items {
		if it = strings.TrimSpace(it); it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return out
}
