package summary

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/corpus"
)

func paper(folder, cat string, score, year int) *analysis.Paper {
	return &analysis.Paper{
		Folder:          folder,
		Title:           "Paper " + folder,
		PrimaryCategory: cat,
		RelevanceScore:  analysis.FlexInt(score),
		Year:            analysis.FlexInt(year),
		Language:        "English",
	}
}

func testPapers() []*analysis.Paper {
	a := paper("AAA", "A", 3, 2018)
	a.SecondaryCategories = []string{"B", "C"}
	a.MLMethods = []string{"Random Forest", " Random Forest ", "SVM"}
	b := paper("BBB", "B", 2, 2019)
	b.MLMethods = []string{"SVM", ""}
	c := paper("CCC", "E", 5, 2021)
	c.CoreTechnique = []string{"transfer learning", "data augmentation"}
	d := paper("DDD", "E", 4, 2020)
	d.CoreTechnique = []string{"transfer learning"}
	e := paper("EEE", "Unknown", 0, 0)
	return []*analysis.Paper{a, b, c, d, e}
}

func TestCategoryDistributionFixedOrder(t *testing.T) {
	dist := CategoryDistribution(testPapers())
	want := []string{"A", "B", "C", "D", "E", "F", "Unknown"}
	if len(dist) != len(want) {
		t.Fatalf("got %d rows, want %d", len(dist), len(want))
	}
	for i, cat := range want {
		if dist[i].Category != cat {
			t.Fatalf("row %d is %q, want %q", i, dist[i].Category, cat)
		}
	}
	if dist[4].Count != 2 || dist[4].Percent != 40 {
		t.Fatalf("E row: %+v", dist[4])
	}
	if dist[5].Count != 0 {
		t.Fatalf("F should be present with zero count, got %d", dist[5].Count)
	}
}

func TestSecondaryDistributionMultiCounts(t *testing.T) {
	dist := SecondaryDistribution(testPapers())
	if dist.Get("B") != 1 || dist.Get("C") != 1 {
		t.Fatalf("secondary counts wrong: %+v", dist)
	}
	if dist.Total() != 2 {
		t.Fatalf("one paper with two secondaries should contribute two units, got %d", dist.Total())
	}
}

func TestTopKTieOrdering(t *testing.T) {
	counts := map[string]int{"zeta": 2, "alpha": 2, "mid": 3}
	top := topK(counts, 2)
	if top[0].Label != "mid" || top[1].Label != "alpha" {
		t.Fatalf("tie must break by label ascending: %+v", top)
	}
}

func TestMethodCountsTrimAndSkipEmpty(t *testing.T) {
	counts := MethodCounts(testPapers())
	if counts["Random Forest"] != 2 {
		t.Fatalf("trimmed duplicates should merge, got %d", counts["Random Forest"])
	}
	if counts["SVM"] != 2 {
		t.Fatalf("SVM count: %d", counts["SVM"])
	}
	if _, ok := counts[""]; ok {
		t.Fatal("empty entries must be dropped")
	}
}

func TestYearDistributionExcludesZero(t *testing.T) {
	dist := YearDistribution(testPapers())
	want := []string{"2018", "2019", "2020", "2021"}
	if len(dist) != len(want) {
		t.Fatalf("got %d years: %+v", len(dist), dist)
	}
	for i, y := range want {
		if dist[i].Label != y {
			t.Fatalf("year %d is %q, want %q", i, dist[i].Label, y)
		}
	}
}

func TestCrosstabRowTotalsMatchDistribution(t *testing.T) {
	papers := testPapers()
	dist := CategoryDistribution(papers)
	byCat := map[string]int{}
	for _, cc := range dist {
		byCat[cc.Category] = cc.Count
	}
	for _, row := range Crosstab(papers) {
		if row.Total != byCat[row.Category] {
			t.Fatalf("row %s total %d does not match distribution count %d",
				row.Category, row.Total, byCat[row.Category])
		}
	}
}

func TestCrosstabCells(t *testing.T) {
	rows := Crosstab(testPapers())
	var eRow *CrosstabRow
	for i := range rows {
		if rows[i].Category == "E" {
			eRow = &rows[i]
		}
	}
	if eRow == nil {
		t.Fatal("missing E row")
	}
	if eRow.Cells[3] != 1 || eRow.Cells[4] != 1 || eRow.Total != 2 {
		t.Fatalf("E row cells wrong: %+v", eRow)
	}
	// The zero-score Unknown paper counts toward its row total even
	// though no 1-5 cell holds it.
	last := rows[len(rows)-1]
	if last.Category != "Unknown" || last.Total != 1 {
		t.Fatalf("Unknown row: %+v", last)
	}
	for _, n := range last.Cells {
		if n != 0 {
			t.Fatalf("zero score must not occupy a cell: %+v", last)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	snap := corpus.Snapshot{
		Papers:      testPapers(),
		ParseErrors: []corpus.ParseError{{Folder: "BAD"}},
	}
	first, err := json.Marshal(Build(snap))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Build(snap))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("summary output must be byte-identical across runs:\n%s\n%s", first, second)
	}
}

func TestSummaryShape(t *testing.T) {
	snap := corpus.Snapshot{
		Papers:      testPapers(),
		ParseErrors: []corpus.ParseError{{Folder: "BAD"}},
	}
	blob, err := json.Marshal(Build(snap))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"total", "parse_errors", "primary_category_counts",
		"relevance_score_counts", "top_ml_methods", "top_core_techniques",
		"year_distribution", "language_distribution",
	} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("summary missing key %q: %s", key, blob)
		}
	}
	if len(decoded) != 8 {
		t.Fatalf("summary has %d keys, want 8: %s", len(decoded), blob)
	}
	var total, parseErrors int
	if err := json.Unmarshal(decoded["total"], &total); err != nil || total != 5 {
		t.Fatalf("total = %d (%v)", total, err)
	}
	if err := json.Unmarshal(decoded["parse_errors"], &parseErrors); err != nil || parseErrors != 1 {
		t.Fatalf("parse_errors = %d (%v)", parseErrors, err)
	}
}

func TestCountListMarshalPreservesOrder(t *testing.T) {
	cl := CountList{{Label: "zeta", N: 3}, {Label: "alpha", N: 1}}
	blob, err := json.Marshal(cl)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != `{"zeta":3,"alpha":1}` {
		t.Fatalf("order lost: %s", blob)
	}
}
