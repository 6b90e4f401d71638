// Package schemas provides JSON Schema validation for documents entering the system.
// Schema files are embedded so validation works regardless of working directory.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Document names the schema a payload is validated against.
type Document string

// The documents with embedded schemas.
const (
	SourceCV   Document = "source_cv"
	TailoredCV Document = "tailored_cv"
	VPR        Document = "vpr"
)

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Document Document
	Errors   []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:\n", ve.Document)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Document Document
	Cause    error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema for %s: %v", e.Document, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validate checks a raw JSON payload against the embedded schema for the given
// document. It returns *ValidationError when the payload does not conform, and
// *SchemaLoadError only for internal schema problems.
func Validate(doc Document, payload []byte) error {
	schemaBytes, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.schema.json", doc))
	if err != nil {
		return &SchemaLoadError{Document: doc, Cause: err}
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// Malformed payload JSON also lands here; report it as a field error.
		return &ValidationError{
			Document: doc,
			Errors:   []FieldError{{Field: "(document)", Message: err.Error()}},
		}
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Document: doc}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
