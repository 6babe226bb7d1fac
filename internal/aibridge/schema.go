// internal/aibridge/schema.go
package aibridge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// fieldPayloadSchema constrains what the extraction service may hand us
// before it reaches any listening form. Unknown keys are rejected outright so
// a drifting upstream contract fails loudly instead of silently dropping
// fields.
const fieldPayloadSchema = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["title", "department", "location", "requiredSkills"],
	"properties": {
		"title":            {"type": "string", "minLength": 1},
		"department":       {"type": "string", "minLength": 1},
		"location":         {"type": "string", "enum": ["Remote", "Hybrid", "Onsite"]},
		"targetYearsMin":   {"type": "integer", "minimum": 0},
		"targetYearsMax":   {"type": "integer", "minimum": 0},
		"requiredSkills":   {"type": "array", "items": {"type": "string"}},
		"niceToHaveSkills": {"type": "array", "items": {"type": "string"}},
		"description":      {"type": "string"}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(fieldPayloadSchema)

// validatePayload checks raw extraction output against the field schema and
// returns a single aggregated message on failure.
func validatePayload(raw []byte) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation errored: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("payload rejected: %s", strings.Join(msgs, "; "))
}
