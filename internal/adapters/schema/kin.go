// Package schema provides the SchemaValidator engines that check textual
// payloads against schemas carried by the contract model.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// Engine names accepted by New.
const (
	EngineOpenAPI    = "openapi"
	EngineJSONSchema = "jsonschema"
)

// New returns the engine registered under name.
func New(name string) (domain.SchemaValidator, error) {
	switch strings.ToLower(name) {
	case "", EngineOpenAPI:
		return OpenAPI{}, nil
	case EngineJSONSchema:
		return NewJSONSchema(), nil
	default:
		return nil, fmt.Errorf("unknown schema engine %q", name)
	}
}

// OpenAPI validates payloads with kin-openapi's own schema visitor.
type OpenAPI struct{}

// Validate decodes text as JSON and visits it against the schema, collecting
// every failure instead of stopping at the first.
func (OpenAPI) Validate(schema any, text string) ([]domain.ValidationIssue, error) {
	s, err := schemaOf(schema)
	if err != nil {
		return nil, err
	}

	value, err := decodeJSON(text)
	if err != nil {
		return nil, err
	}

	err = s.VisitJSON(value, openapi3.MultiErrors(), openapi3.VisitAsRequest())
	if err == nil {
		return nil, nil
	}

	var issues []domain.ValidationIssue
	collectIssues(err, &issues)

	return issues, nil
}

func schemaOf(schema any) (*openapi3.Schema, error) {
	switch s := schema.(type) {
	case *openapi3.SchemaRef:
		if s == nil || s.Value == nil {
			return nil, fmt.Errorf("unresolved schema reference: %w", domain.ErrSchemaUnsupported)
		}
		return s.Value, nil
	case *openapi3.Schema:
		if s == nil {
			return nil, fmt.Errorf("nil schema: %w", domain.ErrSchemaUnsupported)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("schema of type %T: %w", schema, domain.ErrSchemaUnsupported)
	}
}

func decodeJSON(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}

	return value, nil
}

func collectIssues(err error, issues *[]domain.ValidationIssue) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectIssues(inner, issues)
		}
	case *openapi3.SchemaError:
		*issues = append(*issues, domain.ValidationIssue{Message: schemaErrorMessage(e)})
	default:
		*issues = append(*issues, domain.ValidationIssue{Message: err.Error()})
	}
}

// schemaErrorMessage renders a SchemaError without the schema and value dumps
// kin-openapi appends by default.
func schemaErrorMessage(err *openapi3.SchemaError) string {
	var reason string
	switch {
	case err.Reason != "":
		reason = err.Reason
	case err.Origin != nil:
		reason = err.Origin.Error()
	default:
		reason = fmt.Sprintf("doesn't match schema %q", err.SchemaField)
	}

	pointer := err.JSONPointer()
	if len(pointer) == 0 {
		return reason
	}

	return fmt.Sprintf(`at "/%s": %s`, strings.Join(pointer, "/"), reason)
}
