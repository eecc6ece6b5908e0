package frontmatter

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaBytes []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// Schema returns the embedded JSON Schema for frontmatter blocks.
func Schema() []byte {
	return schemaBytes
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	})
	return compiledSchema, schemaErr
}

// fieldError is a single schema violation.
type fieldError struct {
	Field       string
	Description string
}

// validateFields checks the decoded block against the schema. Violations are
// returned in schema order; the caller decides which one to surface.
func validateFields(raw map[string]any) ([]fieldError, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("loading frontmatter schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("running schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	out := make([]fieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		out = append(out, fieldError{Field: e.Field(), Description: e.Description()})
	}
	return out, nil
}
