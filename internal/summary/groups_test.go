package summary

import (
	"testing"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

func solutionSet() []*analysis.Paper {
	p1 := paper("P1", "D", 3, 2018)
	p1.CoreTechnique = []string{"transfer learning approach"}
	p1.MLMethods = []string{"CNN"}
	p2 := paper("P2", "E", 5, 2022)
	p2.CoreTechnique = []string{"fine-tuning", "surrogate model"}
	p2.MLMethods = []string{"Convolutional Neural Network"}
	p3 := paper("P3", "E", 4, 2021)
	p3.CoreTechnique = []string{"one-off exotic trick"}
	p4 := paper("P4", "E", 4, 2020)
	p5 := paper("P5", "D", 2, 2005)
	p5.CoreTechnique = []string{"transfer learning"}
	p5.MLMethods = []string{"SVM"}
	background := paper("BG1", "A", 5, 2023)
	return []*analysis.Paper{p1, p2, p3, p4, p5, background}
}

func TestCorePapersSelectionAndOrder(t *testing.T) {
	papers := []*analysis.Paper{
		paper("W", "E", 4, 2019),
		paper("X", "E", 5, 2018),
		paper("Y", "E", 3, 2022),
		paper("Z", "E", 4, 2021),
		paper("Q", "D", 5, 2020),
	}
	core := CorePapers(papers)
	if len(core) != 3 {
		t.Fatalf("want 3 core papers, got %d", len(core))
	}
	// Score descending, ties in load order.
	want := []string{"X", "W", "Z"}
	for i, folder := range want {
		if core[i].Folder != folder {
			t.Fatalf("core[%d] = %s, want %s", i, core[i].Folder, folder)
		}
	}
}

func TestBackgroundRepresentativesLimitsAndRanking(t *testing.T) {
	var papers []*analysis.Paper
	for i := 0; i < 20; i++ {
		p := paper("A"+string(rune('a'+i)), "A", 1+i%5, 2000+i)
		papers = append(papers, p)
	}
	papers = append(papers, paper("B1", "B", 5, 2020))
	reps := BackgroundRepresentatives(papers)
	if len(reps["A"]) != BackgroundLimits["A"] {
		t.Fatalf("A reps = %d, want %d", len(reps["A"]), BackgroundLimits["A"])
	}
	if len(reps["B"]) != 1 || len(reps["C"]) != 0 {
		t.Fatalf("B=%d C=%d", len(reps["B"]), len(reps["C"]))
	}
	for i := 1; i < len(reps["A"]); i++ {
		prev, cur := reps["A"][i-1], reps["A"][i]
		if prev.RelevanceScore < cur.RelevanceScore {
			t.Fatalf("reps not score-descending at %d", i)
		}
		if prev.RelevanceScore == cur.RelevanceScore && prev.Year < cur.Year {
			t.Fatalf("score ties must rank by year descending at %d", i)
		}
	}
}

func TestSolutionPapersOrder(t *testing.T) {
	solution := SolutionPapers(solutionSet())
	want := []string{"P1", "P5", "P2", "P3", "P4"}
	if len(solution) != len(want) {
		t.Fatalf("got %d solution papers", len(solution))
	}
	for i, folder := range want {
		if solution[i].Folder != folder {
			t.Fatalf("solution[%d] = %s, want %s", i, solution[i].Folder, folder)
		}
	}
}

func TestGroupByTechniqueDemotesSingletons(t *testing.T) {
	rules := analysis.DefaultTechniqueRules()
	groups, singletons := GroupByTechnique(SolutionPapers(solutionSet()), rules)

	if len(groups) != 1 || groups[0].Technique != "Transfer Learning" {
		t.Fatalf("groups: %+v", groups)
	}
	g := groups[0]
	if len(g.Papers) != 3 || g.DCount != 2 || g.ECount != 1 {
		t.Fatalf("transfer learning group wrong: len=%d D=%d E=%d", len(g.Papers), g.DCount, g.ECount)
	}
	// Pre-ranked by (score, year) descending.
	if g.Papers[0].Folder != "P2" || g.Papers[1].Folder != "P1" || g.Papers[2].Folder != "P5" {
		t.Fatalf("group ranking wrong: %s %s %s",
			g.Papers[0].Folder, g.Papers[1].Folder, g.Papers[2].Folder)
	}

	// A technique with exactly one paper never earns a numbered
	// section; it appears only among the singletons.
	if len(singletons) != 2 {
		t.Fatalf("want 2 singleton buckets, got %d", len(singletons))
	}
	for _, s := range singletons {
		if len(s.Papers) != 1 {
			t.Fatalf("singleton %q has %d papers", s.Technique, len(s.Papers))
		}
	}
	if singletons[0].Technique != OtherBucket && singletons[1].Technique != OtherBucket {
		t.Fatalf("untagged paper must land in %q: %+v", OtherBucket, singletons)
	}
}

func TestTrendsCutoffAndMerging(t *testing.T) {
	solution := SolutionPapers(solutionSet())

	methods := MethodTrends(solution)
	var cnn *Trend
	for i := range methods {
		if methods[i].Label == "Convolutional Neural Network (CNN)" {
			cnn = &methods[i]
		}
		if methods[i].Label == "SVM" || methods[i].Label == "CNN" {
			t.Fatalf("raw synonym leaked into trends: %+v", methods[i])
		}
	}
	if cnn == nil || cnn.Total != 2 {
		t.Fatalf("CNN synonyms should merge into one series: %+v", methods)
	}

	techniques := TechniqueTrends(solution, analysis.DefaultTechniqueRules())
	var tl *Trend
	for i := range techniques {
		if techniques[i].Label == "Transfer Learning" {
			tl = &techniques[i]
		}
	}
	// P5 (2005) falls below the cutoff; P1 (2018) and P2's fine-tuning
	// (2022) remain.
	if tl == nil || tl.Total != 2 {
		t.Fatalf("transfer learning trend: %+v", tl)
	}
	if tl.Years[0].Label != "2018" || tl.Years[1].Label != "2022" {
		t.Fatalf("trend years must ascend: %+v", tl.Years)
	}
}

func TestCoreExportOrderAndCanonicalization(t *testing.T) {
	export := CoreExport(solutionSet(), analysis.DefaultTechniqueRules())
	if len(export) != 5 {
		t.Fatalf("want 5 solution records, got %d", len(export))
	}
	// Category ascending, then score descending.
	want := []string{"P1", "P5", "P2", "P3", "P4"}
	for i, folder := range want {
		if export[i].Folder != folder {
			t.Fatalf("export[%d] = %s, want %s", i, export[i].Folder, folder)
		}
	}
	if export[0].PrimaryCategory != "D" || export[2].PrimaryCategory != "E" {
		t.Fatalf("category ordering wrong: %+v", export)
	}
	if export[0].CoreTechnique[0] != "Transfer Learning" {
		t.Fatalf("techniques must be canonicalized: %+v", export[0].CoreTechnique)
	}
	p2 := export[2]
	if p2.CoreTechnique[0] != "Transfer Learning" || p2.CoreTechnique[1] != "Surrogate Modeling" {
		t.Fatalf("every listed technique canonicalizes: %+v", p2.CoreTechnique)
	}
}

func TestBackgroundExportShape(t *testing.T) {
	papers := []*analysis.Paper{
		paper("A1", "A", 5, 2020),
		paper("C1", "C", 3, 2019),
	}
	export := BackgroundExport(BackgroundRepresentatives(papers))
	if len(export) != 3 {
		t.Fatalf("export must key all background categories, got %d", len(export))
	}
	if len(export["A"]) != 1 || export["A"][0].Folder != "A1" {
		t.Fatalf("A export: %+v", export["A"])
	}
	if len(export["B"]) != 0 {
		t.Fatalf("B export should be empty, got %+v", export["B"])
	}
}
