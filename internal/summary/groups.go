package summary

import (
	"sort"
	"strconv"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

const (
	// CoreCategory is the taxonomy symbol whose high-scoring papers form
	// the core selection.
	CoreCategory = "E"
	// CoreMinScore is the relevance threshold for the core selection.
	CoreMinScore = 4
	// OtherBucket collects solution papers with no listed technique.
	OtherBucket = "Other / Untagged"
	// MinGroupSize is the smallest technique group that still earns a
	// numbered outline section; smaller groups are demoted to singletons.
	MinGroupSize = 2
	// TrendYearCutoff excludes pre-deep-learning noise from the trend
	// tables.
	TrendYearCutoff = 2010
)

// BackgroundCategories are the background chapters of the outline, in
// chapter order.
var BackgroundCategories = []string{"A", "B", "C"}

// BackgroundLimits fixes how many representative papers each background
// chapter lists.
var BackgroundLimits = map[string]int{"A": 15, "B": 8, "C": 15}

// CorePapers selects the core reading list: papers in the core category
// with a relevance score at or above the threshold, ranked by score
// descending. Ties keep snapshot load order, which is lexicographic by
// folder and therefore stable across runs.
func CorePapers(papers []*analysis.Paper) []*analysis.Paper {
	var core []*analysis.Paper
	for _, p := range papers {
		if p.PrimaryCategory == CoreCategory && p.RelevanceScore.Int() >= CoreMinScore {
			core = append(core, p)
		}
	}
	sort.SliceStable(core, func(i, j int) bool {
		return core[i].RelevanceScore > core[j].RelevanceScore
	})
	return core
}

// BackgroundRepresentatives picks the top-N papers per background
// category, ranked by (relevance score, year) descending.
func BackgroundRepresentatives(papers []*analysis.Paper) map[string][]*analysis.Paper {
	byCat := map[string][]*analysis.Paper{}
	for _, p := range papers {
		byCat[p.PrimaryCategory] = append(byCat[p.PrimaryCategory], p)
	}
	reps := map[string][]*analysis.Paper{}
	for _, cat := range BackgroundCategories {
		pool := append([]*analysis.Paper(nil), byCat[cat]...)
		sortByScoreYear(pool)
		if limit := BackgroundLimits[cat]; len(pool) > limit {
			pool = pool[:limit]
		}
		reps[cat] = pool
	}
	return reps
}

// SolutionPapers returns the D then E papers in snapshot load order;
// this ordering is what makes every downstream tie-break deterministic.
func SolutionPapers(papers []*analysis.Paper) []*analysis.Paper {
	var d, e []*analysis.Paper
	for _, p := range papers {
		switch p.PrimaryCategory {
		case "D":
			d = append(d, p)
		case CoreCategory:
			e = append(e, p)
		}
	}
	return append(d, e...)
}

// TechniqueGroup is the set of solution papers sharing a canonicalized
// primary technique. Papers are pre-ranked by (score, year) descending
// so consumers render them without re-sorting.
type TechniqueGroup struct {
	Technique string
	Papers    []*analysis.Paper
	DCount    int
	ECount    int
}

// GroupByTechnique buckets solution papers by the canonical form of
// their first listed technique; papers with none land in the catch-all
// bucket. Groups come back largest first, ties by technique name, with
// sub-threshold groups demoted to the singletons list.
func GroupByTechnique(solution []*analysis.Paper, rules *analysis.RuleTable) (groups, singletons []TechniqueGroup) {
	byTech := map[string][]*analysis.Paper{}
	for _, p := range solution {
		tech := OtherBucket
		if len(p.CoreTechnique) > 0 {
			tech = rules.Canonicalize(p.CoreTechnique[0])
		}
		byTech[tech] = append(byTech[tech], p)
	}
	all := make([]TechniqueGroup, 0, len(byTech))
	for tech, members := range byTech {
		g := TechniqueGroup{Technique: tech, Papers: members}
		for _, p := range members {
			switch p.PrimaryCategory {
			case "D":
				g.DCount++
			case CoreCategory:
				g.ECount++
			}
		}
		sortByScoreYear(g.Papers)
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i].Papers) != len(all[j].Papers) {
			return len(all[i].Papers) > len(all[j].Papers)
		}
		return all[i].Technique < all[j].Technique
	})
	for _, g := range all {
		if len(g.Papers) >= MinGroupSize {
			groups = append(groups, g)
		} else {
			singletons = append(singletons, g)
		}
	}
	return groups, singletons
}

// Trend is a year-indexed count series for one method or technique.
type Trend struct {
	Label string
	Years CountList
	Total int
}

// MethodTrends counts every listed method per solution paper from the
// cutoff year onward, with method synonyms merged. Series come back by
// total descending, ties by label.
func MethodTrends(solution []*analysis.Paper) []Trend {
	return trends(solution, func(p *analysis.Paper) []string {
		out := make([]string, 0, len(p.MLMethods))
		for _, m := range p.MLMethods {
			out = append(out, analysis.NormalizeMethod(m))
		}
		return out
	})
}

// TechniqueTrends is MethodTrends over canonicalized core techniques.
func TechniqueTrends(solution []*analysis.Paper, rules *analysis.RuleTable) []Trend {
	return trends(solution, func(p *analysis.Paper) []string {
		out := make([]string, 0, len(p.CoreTechnique))
		for _, t := range p.CoreTechnique {
			out = append(out, rules.Canonicalize(t))
		}
		return out
	})
}

func trends(solution []*analysis.Paper, labels func(*analysis.Paper) []string) []Trend {
	byLabel := map[string]map[int]int{}
	for _, p := range solution {
		year := p.Year.Int()
		if year < TrendYearCutoff {
			continue
		}
		for _, label := range labels(p) {
			if byLabel[label] == nil {
				byLabel[label] = map[int]int{}
			}
			byLabel[label][year]++
		}
	}
	out := make([]Trend, 0, len(byLabel))
	for label, years := range byLabel {
		t := Trend{Label: label}
		keys := make([]int, 0, len(years))
		for y := range years {
			keys = append(keys, y)
			t.Total += years[y]
		}
		sort.Ints(keys)
		for _, y := range keys {
			t.Years = append(t.Years, Count{Label: strconv.Itoa(y), N: years[y]})
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sortByScoreYear(papers []*analysis.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		if papers[i].RelevanceScore != papers[j].RelevanceScore {
			return papers[i].RelevanceScore > papers[j].RelevanceScore
		}
		return papers[i].Year > papers[j].Year
	})
}
