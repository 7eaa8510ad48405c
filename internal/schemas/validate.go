// Package schemas validates raw JSON request bodies against the embedded JSON Schemas.
package schemas

import (
	"cmp"
	"fmt"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/cv-builder/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Resume validates résumé records, partial updates and render requests.
const Resume = "resume.schema.json"

// rootField names errors that are not attached to a property.
const rootField = "(root)"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Summary returns the errors on a single line, for API responses.
func (ve *ValidationError) Summary() string {
	parts := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		parts[i] = err.Field + ": " + err.Message
	}
	return strings.Join(parts, "; ")
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var compiled sync.Map // schema name -> *gojsonschema.Schema

func loadSchema(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}

	content, err := schemafiles.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not found", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}

	actual, _ := compiled.LoadOrStore(name, schema)
	return actual.(*gojsonschema.Schema), nil
}

// Validate checks a JSON document against the named embedded schema.
// Malformed JSON is reported as a ValidationError on the root.
func Validate(name string, data []byte) error {
	schema, err := loadSchema(name)
	if err != nil {
		return err
	}
	return toValidationError(schema.Validate(gojsonschema.NewBytesLoader(data)))
}

// toValidationError flattens a gojsonschema result. A loader error means
// the document was not JSON at all.
func toValidationError(result *gojsonschema.Result, err error) error {
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: rootField, Message: "invalid JSON: " + err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, len(result.Errors()))
	for i, desc := range result.Errors() {
		fields[i] = FieldError{Field: cmp.Or(desc.Field(), rootField), Message: desc.Description()}
	}
	return &ValidationError{Errors: fields}
}
