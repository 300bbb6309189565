// Package outline renders the review outline document and its derived
// exports. All ranking and normalization happens upstream in the
// summary package; this package only lays the pre-ordered selections
// out on the page.
package outline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/summary"
)

const (
	// maxPapersPerSection bounds how many papers a technique section
	// lists before eliding the rest.
	maxPapersPerSection = 8
	// maxTrendSeries bounds how many method/technique series the trend
	// chapter shows.
	maxTrendSeries = 8
	// trendDisplayFrom hides the sparse early years from the trend
	// lines; the underlying counts still start at the cutoff year.
	trendDisplayFrom = 2017
)

// Data bundles every pre-ordered selection the outline consumes.
type Data struct {
	Background      map[string][]*analysis.Paper
	Groups          []summary.TechniqueGroup
	Singletons      []summary.TechniqueGroup
	MethodTrends    []summary.Trend
	TechniqueTrends []summary.Trend
	Core            []summary.CoreExportRecord
	BackgroundReps  map[string][]summary.BackgroundExportRecord
}

// Collect derives the outline inputs from a loaded snapshot. Every
// ordering decision is made by the summary package; Collect just wires
// its outputs together.
func Collect(snap corpus.Snapshot, rules *analysis.RuleTable) Data {
	solution := summary.SolutionPapers(snap.Papers)
	groups, singletons := summary.GroupByTechnique(solution, rules)
	background := summary.BackgroundRepresentatives(snap.Papers)
	return Data{
		Background:      background,
		Groups:          groups,
		Singletons:      singletons,
		MethodTrends:    summary.MethodTrends(solution),
		TechniqueTrends: summary.TechniqueTrends(solution, rules),
		Core:            summary.CoreExport(snap.Papers, rules),
		BackgroundReps:  summary.BackgroundExport(background),
	}
}

// Build renders the review outline as a markdown document with numbered
// chapters.
func Build(d Data) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Review Outline: Machine Learning for Materials Performance Prediction under Small-Sample Constraints\n\n")

	fmt.Fprintf(&b, "## Chapter 1: Introduction\n\n")
	fmt.Fprintf(&b, "Purpose: background, motivation, scope. Suggested length: ~2 pages.\n\n")
	fmt.Fprintf(&b, "1. Importance of materials performance prediction and key challenges\n")
	fmt.Fprintf(&b, "   - Cite Category A papers on limitations of traditional methods\n")
	fmt.Fprintf(&b, "2. Rise of data-driven methods\n")
	fmt.Fprintf(&b, "   - Cite Category B survey papers\n")
	fmt.Fprintf(&b, "3. The core tension: scarce experimental data vs data-hungry models\n")
	fmt.Fprintf(&b, "4. Scope and organization\n\n")

	writeBackgroundChapter(&b, 2, "Traditional Methods and Their Limitations", "A", d,
		"Show why traditional approaches are insufficient. Suggested length: ~3 pages.")
	writeBackgroundChapter(&b, 3, "Data-Driven Methods as Methodological Background", "B", d,
		"Establish methodological background. Suggested length: ~2 pages.")
	writeBackgroundChapter(&b, 4, "Data-Driven Methods in Materials Performance Prediction", "C", d,
		"Show data-driven methods are established in the domain. Suggested length: ~3 pages.")

	writeSolutionChapter(&b, 5, d)
	writeTrendChapter(&b, 6, d)

	fmt.Fprintf(&b, "## Chapter 7: Conclusions\n\n")
	fmt.Fprintf(&b, "Suggested length: ~1 page.\n")

	return b.String()
}

func writeBackgroundChapter(b *strings.Builder, num int, title, cat string, d Data, purpose string) {
	reps := d.Background[cat]
	fmt.Fprintf(b, "## Chapter %d: %s (Category %s)\n\n", num, title, cat)
	fmt.Fprintf(b, "Purpose: %s\n\n", purpose)
	fmt.Fprintf(b, "Representative papers (Category %s, Top %d):\n\n", cat, summary.BackgroundLimits[cat])
	for i, p := range reps {
		fmt.Fprintf(b, "%d. [%d] %s (%d)\n", i+1, p.RelevanceScore.Int(), clip(p.Title, 70), p.Year.Int())
		fmt.Fprintf(b, "   - Folder: %s\n", p.Folder)
		// The angle line appears only in the traditional-methods chapter
		// and the methods line only in the domain-adoption chapter.
		if angle := strings.TrimSpace(p.ReviewAngle); cat == "A" && angle != "" {
			fmt.Fprintf(b, "   - Review angle: %s\n", clip(angle, 80))
		}
		if methods := joinFirst(p.MLMethods, 3); cat == "C" && methods != "" {
			fmt.Fprintf(b, "   - Methods: %s\n", methods)
		}
	}
	fmt.Fprintf(b, "\n")
}

func writeSolutionChapter(b *strings.Builder, num int, d Data) {
	fmt.Fprintf(b, "## Chapter %d: Strategies for Small-Sample Learning (Categories D+E)\n\n", num)
	fmt.Fprintf(b, "Purpose: core contribution, a systematic survey of every relevant strategy. Suggested length: ~10-15 pages.\n\n")

	section := 1
	for _, g := range d.Groups {
		fmt.Fprintf(b, "### %d.%d %s (%d papers: E=%d, D=%d)\n\n",
			num, section, g.Technique, len(g.Papers), g.ECount, g.DCount)
		shown := g.Papers
		if len(shown) > maxPapersPerSection {
			shown = shown[:maxPapersPerSection]
		}
		for i, p := range shown {
			fmt.Fprintf(b, "%d. [%s%d] %s (%d)\n", i+1,
				p.PrimaryCategory, p.RelevanceScore.Int(), clip(p.Title, 65), p.Year.Int())
			fmt.Fprintf(b, "   - Folder: %s\n", p.Folder)
			if contrib := strings.TrimSpace(p.CoreContribution); contrib != "" {
				fmt.Fprintf(b, "   - Contribution: %s\n", clip(contrib, 80))
			}
		}
		if extra := len(g.Papers) - len(shown); extra > 0 {
			fmt.Fprintf(b, "\n... %d more papers\n", extra)
		}
		fmt.Fprintf(b, "\n")
		section++
	}

	if len(d.Singletons) > 0 {
		fmt.Fprintf(b, "### %d.%d Other Methods (1 paper each)\n\n", num, section)
		for _, g := range d.Singletons {
			p := g.Papers[0]
			fmt.Fprintf(b, "- %s: %s (%d)\n", g.Technique, clip(p.Title, 65), p.Year.Int())
			fmt.Fprintf(b, "  - Folder: %s\n", p.Folder)
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeTrendChapter(b *strings.Builder, num int, d Data) {
	fmt.Fprintf(b, "## Chapter %d: Trends and Future Directions\n\n", num)
	fmt.Fprintf(b, "Purpose: temporal trends and future directions. Suggested length: ~2-3 pages.\n\n")

	fmt.Fprintf(b, "### %d.1 Method adoption trends (by year)\n\n", num)
	writeTrendLines(b, d.MethodTrends)

	fmt.Fprintf(b, "### %d.2 Strategy evolution trends (by year)\n\n", num)
	writeTrendLines(b, d.TechniqueTrends)

	fmt.Fprintf(b, "### %d.3 Recommended future directions\n\n", num)
	fmt.Fprintf(b, "- Multi-strategy combinations\n")
	fmt.Fprintf(b, "- Foundation models and large language models for materials data\n")
	fmt.Fprintf(b, "- Standardized benchmark datasets\n")
	fmt.Fprintf(b, "- Uncertainty quantification and reliability\n\n")
}

func writeTrendLines(b *strings.Builder, series []summary.Trend) {
	shown := series
	if len(shown) > maxTrendSeries {
		shown = shown[:maxTrendSeries]
	}
	for _, t := range shown {
		var parts []string
		for _, yc := range t.Years {
			if y, err := strconv.Atoi(yc.Label); err == nil && y >= trendDisplayFrom {
				parts = append(parts, fmt.Sprintf("%s:%d", yc.Label, yc.N))
			}
		}
		fmt.Fprintf(b, "- %s: %s\n", t.Label, strings.Join(parts, ", "))
	}
	fmt.Fprintf(b, "\n")
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func joinFirst(items []string, n int) string {
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return strings.Join(out, ", ")
}
