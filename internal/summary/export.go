package summary

import (
	"sort"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

// CoreExportRecord is one entry of the core_papers.json export, the
// writing-stage working set for the solution chapters.
type CoreExportRecord struct {
	Folder           string   `json:"folder"`
	Title            string   `json:"title"`
	TitleZH          string   `json:"title_zh"`
	Year             int      `json:"year"`
	PrimaryCategory  string   `json:"primary_category"`
	RelevanceScore   int      `json:"relevance_score"`
	MLMethods        []string `json:"ml_methods"`
	CoreTechnique    []string `json:"core_technique"`
	DomainMaterial   *string  `json:"domain_specific_material"`
	CoreContribution string   `json:"core_contribution"`
	CoreConclusion   string   `json:"core_conclusion"`
	ReviewAngle      string   `json:"review_angle"`
	KeywordsZH       []string `json:"keywords_zh"`
}

// CoreExport builds the solution-paper export: every D and E paper with
// its techniques canonicalized, sorted by category ascending then score
// descending. Ties keep load order.
func CoreExport(papers []*analysis.Paper, rules *analysis.RuleTable) []CoreExportRecord {
	solution := SolutionPapers(papers)
	out := make([]CoreExportRecord, 0, len(solution))
	for _, p := range solution {
		techniques := make([]string, 0, len(p.CoreTechnique))
		for _, t := range p.CoreTechnique {
			techniques = append(techniques, rules.Canonicalize(t))
		}
		out = append(out, CoreExportRecord{
			Folder:           p.Folder,
			Title:            p.Title,
			TitleZH:          p.TitleZH,
			Year:             p.Year.Int(),
			PrimaryCategory:  p.PrimaryCategory,
			RelevanceScore:   p.RelevanceScore.Int(),
			MLMethods:        p.MLMethods,
			CoreTechnique:    techniques,
			DomainMaterial:   p.DomainMaterial,
			CoreContribution: p.CoreContribution,
			CoreConclusion:   p.CoreConclusion,
			ReviewAngle:      p.ReviewAngle,
			KeywordsZH:       p.KeywordsZH,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PrimaryCategory != out[j].PrimaryCategory {
			return out[i].PrimaryCategory < out[j].PrimaryCategory
		}
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

// BackgroundExportRecord is one entry of the background_papers.json
// export.
type BackgroundExportRecord struct {
	Folder           string `json:"folder"`
	Title            string `json:"title"`
	TitleZH          string `json:"title_zh"`
	Year             int    `json:"year"`
	RelevanceScore   int    `json:"relevance_score"`
	CoreContribution string `json:"core_contribution"`
	ReviewAngle      string `json:"review_angle"`
}

// BackgroundExport converts the per-category representative selections
// into their export shape, keyed by background category.
func BackgroundExport(reps map[string][]*analysis.Paper) map[string][]BackgroundExportRecord {
	out := make(map[string][]BackgroundExportRecord, len(BackgroundCategories))
	for _, cat := range BackgroundCategories {
		records := make([]BackgroundExportRecord, 0, len(reps[cat]))
		for _, p := range reps[cat] {
			records = append(records, BackgroundExportRecord{
				Folder:           p.Folder,
				Title:            p.Title,
				TitleZH:          p.TitleZH,
				Year:             p.Year.Int(),
				RelevanceScore:   p.RelevanceScore.Int(),
				CoreContribution: p.CoreContribution,
				ReviewAngle:      p.ReviewAngle,
			})
		}
		out[cat] = records
	}
	return out
}
