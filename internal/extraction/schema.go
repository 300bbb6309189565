package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

// payloadSchema is the shape contract enforced at the service boundary.
// It is deliberately loose about value contents (the taxonomy engine
// tolerates garbage labels and scores) but strict about the keys and
// container types a usable record needs.
const payloadSchema = `{
  "type": "object",
  "required": ["title", "primary_category", "ml_methods", "core_technique"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "primary_category": {"type": "string"},
    "authors": {"type": "array", "items": {"type": "string"}},
    "secondary_categories": {"type": "array"},
    "ml_methods": {"type": "array"},
    "core_technique": {"type": "array"},
    "keywords_zh": {"type": "array"}
  }
}`

var compiledPayloadSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("payload.json", strings.NewReader(payloadSchema)); err != nil {
		panic(fmt.Sprintf("add payload schema: %v", err))
	}
	schema, err := compiler.Compile("payload.json")
	if err != nil {
		panic(fmt.Sprintf("compile payload schema: %v", err))
	}
	return schema
}

// decodePayload strips any code fence, validates the body against the
// payload schema, and decodes it into a paper. Any failure is a malformed
// response and therefore retryable.
func decodePayload(raw string) (*analysis.Paper, error) {
	clean := stripCodeFences(raw)
	if strings.TrimSpace(clean) == "" {
		return nil, fmt.Errorf("empty response body")
	}
	var generic any
	if err := json.Unmarshal([]byte(clean), &generic); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if err := compiledPayloadSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("response shape: %w", err)
	}
	var paper analysis.Paper
	if err := json.Unmarshal([]byte(clean), &paper); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &paper, nil
}
