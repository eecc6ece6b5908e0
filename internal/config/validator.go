package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed settings.schema.json
var schemaBytes []byte

// GetSchema returns the embedded settings JSON Schema.
func GetSchema() []byte {
	return schemaBytes
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationResult holds the outcome of a settings validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks settings against the embedded JSON Schema plus the rules
// the schema cannot express.
func Validate(s *Settings) (*ValidationResult, error) {
	if s == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling settings to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("running schema validation: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:       e.Field(),
			Description: e.Description(),
		})
	}

	if s.Pattern != "" && !doublestar.ValidatePattern(s.Pattern) {
		vr.Valid = false
		vr.Errors = append(vr.Errors, ValidationError{
			Field:       "pattern",
			Description: fmt.Sprintf("%q is not a valid glob pattern", s.Pattern),
		})
	}
	return vr, nil
}

// Summary joins the validation errors into one line.
func (r *ValidationResult) Summary() string {
	if r == nil || len(r.Errors) == 0 {
		return ""
	}
	out := ""
	for i, e := range r.Errors {
		if i > 0 {
			out += "; "
		}
		out += e.Field + ": " + e.Description
	}
	return out
}
