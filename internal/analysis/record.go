package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MetaTimeLayout is the timestamp format recorded in the _meta block.
const MetaTimeLayout = "2006-01-02 15:04:05"

// FlexInt is an integer that tolerates the mess an extraction model can
// produce: JSON numbers, numeric strings, floats, null, or prose like
// "four". Anything that does not parse as an integer coerces to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

func (f FlexInt) Int() int { return int(f) }

// Meta is the provenance block attached to every successful analysis.
type Meta struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Model        string `json:"model"`
	AnalyzedAt   string `json:"analyzed_at"`
}

// Paper is the structured analysis of one document as returned by the
// extraction service and persisted to the per-item result slot.
type Paper struct {
	Title               string   `json:"title"`
	TitleZH             string   `json:"title_zh"`
	Authors             []string `json:"authors"`
	Year                FlexInt  `json:"year"`
	Journal             string   `json:"journal"`
	Language            string   `json:"language"`
	PrimaryCategory     string   `json:"primary_category"`
	SecondaryCategories []string `json:"secondary_categories"`
	RelevanceScore      FlexInt  `json:"relevance_score"`
	DomainMaterial      *string  `json:"domain_specific_material"`
	ResearchProblem     string   `json:"research_problem"`
	MLMethods           []string `json:"ml_methods"`
	CoreTechnique       []string `json:"core_technique"`
	DatasetInfo         *string  `json:"dataset_info"`
	CoreContribution    string   `json:"core_contribution"`
	CoreConclusion      string   `json:"core_conclusion"`
	Limitations         *string  `json:"limitations"`
	ReviewAngle         string   `json:"review_angle"`
	KeywordsZH          []string `json:"keywords_zh"`
	Meta                *Meta    `json:"_meta,omitempty"`

	// Folder is the corpus item identifier, filled in at load time.
	// It is not part of the persisted payload.
	Folder string `json:"-"`
}

// Failure is the terminal error record persisted when an item could not
// be analyzed. It occupies the same result slot as a Paper.
type Failure struct {
	Error          string `json:"error"`
	Filename       string `json:"filename"`
	ExtractedChars *int   `json:"extracted_chars,omitempty"`
}

// Record is the tagged variant stored in a result slot: exactly one of
// Paper or Failure is set. The persisted JSON is distinguished by the
// presence of an "error" key, matching the on-disk schema.
type Record struct {
	Paper   *Paper
	Failure *Failure
}

func SuccessRecord(p *Paper) Record   { return Record{Paper: p} }
func FailureRecord(f *Failure) Record { return Record{Failure: f} }
func (r Record) IsFailure() bool      { return r.Failure != nil }

func (r Record) MarshalJSON() ([]byte, error) {
	switch {
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	case r.Paper != nil:
		return json.Marshal(r.Paper)
	default:
		return nil, fmt.Errorf("record has neither paper nor failure")
	}
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		f := &Failure{}
		if err := json.Unmarshal(data, f); err != nil {
			return err
		}
		*r = Record{Failure: f}
		return nil
	}
	p := &Paper{}
	if err := json.Unmarshal(data, p); err != nil {
		return err
	}
	*r = Record{Paper: p}
	return nil
}

// Normalize rewrites the taxonomy fields of a paper in place so every
// downstream consumer sees canonical category symbols and coerced scores.
// Callers aggregate over in-memory copies; persisted records are never
// rewritten.
func (p *Paper) Normalize() {
	p.PrimaryCategory = NormalizeCategory(p.PrimaryCategory)
	for i, c := range p.SecondaryCategories {
		p.SecondaryCategories[i] = NormalizeCategory(c)
	}
}
