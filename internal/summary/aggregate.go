// Package summary aggregates persisted analysis records into the
// distributions, rankings, and groupings that drive the review outline.
// Every function here is a pure function of the snapshot it is given:
// rerunning aggregation over an unchanged corpus produces byte-identical
// output.
package summary

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
)

const (
	// TopReport bounds the frequency tables shown in the console report.
	TopReport = 20
	// TopExport bounds the frequency tables written to summary.json.
	TopExport = 30
)

// Count is one labeled tally in an ordered frequency table.
type Count struct {
	Label string
	N     int
}

// CountList is a frequency table whose order is significant. It marshals
// to a JSON object with keys emitted in list order, so the persisted
// summary preserves the ranking instead of Go's sorted-key map encoding.
type CountList []Count

func (cl CountList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cl {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.N))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the tally for a label, zero when absent.
func (cl CountList) Get(label string) int {
	for _, c := range cl {
		if c.Label == label {
			return c.N
		}
	}
	return 0
}

// Total sums every tally in the table.
func (cl CountList) Total() int {
	n := 0
	for _, c := range cl {
		n += c.N
	}
	return n
}

// topK ranks a raw tally map by count descending, ties broken by label
// ascending so repeated runs emit identical tables.
func topK(m map[string]int, k int) CountList {
	out := make(CountList, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// CategoryCount is one row of the primary-category distribution.
type CategoryCount struct {
	Category string
	Label    string
	Count    int
	Percent  float64
}

// CategoryDistribution counts papers per normalized primary category in
// fixed A-F display order, with any stray Unknown bucket appended last.
func CategoryDistribution(papers []*analysis.Paper) []CategoryCount {
	tally := map[string]int{}
	for _, p := range papers {
		tally[p.PrimaryCategory]++
	}
	total := len(papers)
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}
	out := make([]CategoryCount, 0, len(analysis.Categories)+1)
	for _, cat := range analysis.Categories {
		out = append(out, CategoryCount{
			Category: cat,
			Label:    analysis.CategoryLabels[cat],
			Count:    tally[cat],
			Percent:  pct(tally[cat]),
		})
	}
	if n := tally[analysis.CategoryUnknown]; n > 0 {
		out = append(out, CategoryCount{
			Category: analysis.CategoryUnknown,
			Count:    n,
			Percent:  pct(n),
		})
	}
	return out
}

// RelevanceDistribution counts papers per coerced relevance score,
// ascending by score.
func RelevanceDistribution(papers []*analysis.Paper) CountList {
	tally := map[int]int{}
	for _, p := range papers {
		tally[p.RelevanceScore.Int()]++
	}
	scores := make([]int, 0, len(tally))
	for s := range tally {
		scores = append(scores, s)
	}
	sort.Ints(scores)
	out := make(CountList, 0, len(scores))
	for _, s := range scores {
		out = append(out, Count{Label: strconv.Itoa(s), N: tally[s]})
	}
	return out
}

// SecondaryDistribution multi-counts secondary categories: a paper
// listing two categories contributes one unit to each bucket. Fixed A-F
// order, Unknown appended when present.
func SecondaryDistribution(papers []*analysis.Paper) CountList {
	tally := map[string]int{}
	for _, p := range papers {
		for _, c := range p.SecondaryCategories {
			tally[c]++
		}
	}
	out := make(CountList, 0, len(analysis.Categories)+1)
	for _, cat := range analysis.Categories {
		out = append(out, Count{Label: cat, N: tally[cat]})
	}
	if n := tally[analysis.CategoryUnknown]; n > 0 {
		out = append(out, Count{Label: analysis.CategoryUnknown, N: n})
	}
	return out
}

// MethodCounts tallies trimmed, non-empty ml_methods entries verbatim.
func MethodCounts(papers []*analysis.Paper) map[string]int {
	tally := map[string]int{}
	for _, p := range papers {
		for _, m := range p.MLMethods {
			if m = strings.TrimSpace(m); m != "" {
				tally[m]++
			}
		}
	}
	return tally
}

// TechniqueCounts tallies trimmed, non-empty core_technique entries
// verbatim, without canonicalization; the raw labels are what the
// summary artifact reports.
func TechniqueCounts(papers []*analysis.Paper) map[string]int {
	tally := map[string]int{}
	for _, p := range papers {
		for _, t := range p.CoreTechnique {
			if t = strings.TrimSpace(t); t != "" {
				tally[t]++
			}
		}
	}
	return tally
}

// YearDistribution counts papers per year ascending; zero or missing
// years are excluded.
func YearDistribution(papers []*analysis.Paper) CountList {
	tally := map[int]int{}
	for _, p := range papers {
		if y := p.Year.Int(); y != 0 {
			tally[y]++
		}
	}
	years := make([]int, 0, len(tally))
	for y := range tally {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make(CountList, 0, len(years))
	for _, y := range years {
		out = append(out, Count{Label: strconv.Itoa(y), N: tally[y]})
	}
	return out
}

// LanguageDistribution counts papers per language, most common first,
// ties by label ascending.
func LanguageDistribution(papers []*analysis.Paper) CountList {
	tally := map[string]int{}
	for _, p := range papers {
		lang := p.Language
		if lang == "" {
			lang = analysis.CategoryUnknown
		}
		tally[lang]++
	}
	return topK(tally, 0)
}

// CrosstabRow is one category row of the category x relevance table.
// Cells holds the counts for scores 1 through 5; Total counts every
// paper in the category, including those whose score fell outside 1-5.
type CrosstabRow struct {
	Category string
	Cells    [5]int
	Total    int
}

// Crosstab cross-tabulates primary category against relevance score.
// Rows appear in fixed A-F order, with an Unknown row appended when any
// paper normalized to it, so each row's total matches the category
// distribution.
func Crosstab(papers []*analysis.Paper) []CrosstabRow {
	byCat := map[string]*CrosstabRow{}
	order := append([]string(nil), analysis.Categories...)
	for _, cat := range order {
		byCat[cat] = &CrosstabRow{Category: cat}
	}
	for _, p := range papers {
		cat := p.PrimaryCategory
		row, ok := byCat[cat]
		if !ok {
			row = &CrosstabRow{Category: cat}
			byCat[cat] = row
			order = append(order, cat)
		}
		row.Total++
		if s := p.RelevanceScore.Int(); s >= 1 && s <= 5 {
			row.Cells[s-1]++
		}
	}
	out := make([]CrosstabRow, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCat[cat])
	}
	return out
}

// Summary is the corpus-level aggregate persisted as summary.json.
type Summary struct {
	Total                 int       `json:"total"`
	ParseErrors           int       `json:"parse_errors"`
	PrimaryCategoryCounts CountList `json:"primary_category_counts"`
	RelevanceScoreCounts  CountList `json:"relevance_score_counts"`
	TopMLMethods          CountList `json:"top_ml_methods"`
	TopCoreTechniques     CountList `json:"top_core_techniques"`
	YearDistribution      CountList `json:"year_distribution"`
	LanguageDistribution  CountList `json:"language_distribution"`
}

// Build computes the summary artifact from a loaded snapshot. Slot parse
// errors are counted but never contribute to the statistics.
func Build(snap corpus.Snapshot) *Summary {
	papers := snap.Papers
	primary := CountList{}
	for _, cc := range CategoryDistribution(papers) {
		if cc.Count > 0 {
			primary = append(primary, Count{Label: cc.Category, N: cc.Count})
		}
	}
	return &Summary{
		Total:                 len(papers),
		ParseErrors:           len(snap.ParseErrors),
		PrimaryCategoryCounts: primary,
		RelevanceScoreCounts:  RelevanceDistribution(papers),
		TopMLMethods:          topK(MethodCounts(papers), TopExport),
		TopCoreTechniques:     topK(TechniqueCounts(papers), TopExport),
		YearDistribution:      YearDistribution(papers),
		LanguageDistribution:  LanguageDistribution(papers),
	}
}

