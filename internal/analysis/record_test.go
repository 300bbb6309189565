package analysis

import (
	"encoding/json"
	"testing"
)

func TestFlexIntCoercion(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{`4`, 4},
		{`"4"`, 4},
		{`"2023"`, 2023},
		{`2021.0`, 2021},
		{`"four"`, 0},
		{`null`, 0},
		{`"n/a"`, 0},
		{`["ugh"]`, 0},
	} {
		var f FlexInt
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if f.Int() != tc.want {
			t.Fatalf("FlexInt(%s) got %d, want %d", tc.in, f.Int(), tc.want)
		}
	}
}

func TestRecordRoundTripSuccess(t *testing.T) {
	body := `{
		"title": "Data-driven creep modeling",
		"title_zh": "数据驱动的蠕变建模",
		"authors": ["Li", "Zhang"],
		"year": "2022",
		"journal": "Acta Materialia",
		"language": "English",
		"primary_category": "E. Core literature",
		"secondary_categories": ["D"],
		"relevance_score": 5,
		"domain_specific_material": "P91 steel",
		"research_problem": "小样本蠕变寿命预测",
		"ml_methods": ["Gaussian Process Regression"],
		"core_technique": ["transfer learning"],
		"dataset_info": null,
		"core_contribution": "提出迁移学习框架",
		"core_conclusion": "精度显著提升",
		"limitations": null,
		"review_angle": "第五章",
		"keywords_zh": ["蠕变", "迁移学习"]
	}`
	var rec Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.IsFailure() {
		t.Fatal("expected success record")
	}
	if rec.Paper.Year.Int() != 2022 || rec.Paper.RelevanceScore.Int() != 5 {
		t.Fatalf("coerced fields wrong: year=%d score=%d", rec.Paper.Year.Int(), rec.Paper.RelevanceScore.Int())
	}
	if rec.Paper.Limitations != nil {
		t.Fatal("null limitations should stay nil")
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Record
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if again.IsFailure() || again.Paper.Title != rec.Paper.Title {
		t.Fatal("round trip lost the success payload")
	}
}

func TestRecordDecodesErrorSlot(t *testing.T) {
	body := `{"error": "Extracted text too short — likely a scanned PDF", "filename": "scan.pdf", "extracted_chars": 42}`
	var rec Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rec.IsFailure() {
		t.Fatal("expected failure record")
	}
	if rec.Failure.ExtractedChars == nil || *rec.Failure.ExtractedChars != 42 {
		t.Fatal("extracted_chars not decoded")
	}
}

func TestPaperNormalize(t *testing.T) {
	p := &Paper{
		PrimaryCategory:     "c. applied ML",
		SecondaryCategories: []string{"D — transferable", "nonsense"},
	}
	p.Normalize()
	if p.PrimaryCategory != "C" {
		t.Fatalf("primary not normalized: %q", p.PrimaryCategory)
	}
	if p.SecondaryCategories[0] != "D" || p.SecondaryCategories[1] != CategoryUnknown {
		t.Fatalf("secondary not normalized: %v", p.SecondaryCategories)
	}
}
