package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceURL = "mem://apicontract/schema.json"

var errSchemaCycle = errors.New("recursive schema")

type compiled struct {
	schema *jsonschema.Schema
	err    error
}

// JSONSchema validates payloads with a draft-4 JSON Schema compiled from the
// OpenAPI schema object. Compiled schemas are cached per schema handle.
type JSONSchema struct {
	cache *xsync.Map[*openapi3.Schema, compiled]
}

// NewJSONSchema returns an engine with an empty compile cache.
func NewJSONSchema() *JSONSchema {
	return &JSONSchema{cache: xsync.NewMap[*openapi3.Schema, compiled]()}
}

// Validate compiles the schema on first use, then validates text against it.
// Schemas that cannot be expressed as JSON Schema are reported as unsupported.
func (j *JSONSchema) Validate(schema any, text string) ([]domain.ValidationIssue, error) {
	s, err := schemaOf(schema)
	if err != nil {
		return nil, err
	}

	c, _ := j.cache.LoadOrCompute(s, func() (compiled, bool) {
		compiledSchema, err := compile(s)
		return compiled{schema: compiledSchema, err: err}, false
	})
	if c.err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaUnsupported, c.err)
	}

	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("payload is not valid JSON: trailing data")
	}

	err = c.schema.Validate(value)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, err
	}

	var issues []domain.ValidationIssue
	collectLeaves(validationErr, &issues)

	return issues, nil
}

func compile(s *openapi3.Schema) (*jsonschema.Schema, error) {
	inlined, err := inline(s, map[*openapi3.Schema]bool{})
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(inlined)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft4
	if err := compiler.AddResource(resourceURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	return compiler.Compile(resourceURL)
}

// inline returns a copy of s with every reference replaced by its resolved
// value, so the result marshals as a standalone document.
func inline(s *openapi3.Schema, path map[*openapi3.Schema]bool) (*openapi3.Schema, error) {
	if path[s] {
		return nil, errSchemaCycle
	}
	path[s] = true
	defer delete(path, s)

	out := *s
	var err error

	// Draft 4 has no nullable keyword; null becomes one more allowed type.
	if s.Nullable && s.Type != nil && len(s.Type.Slice()) > 0 && !s.Type.Includes(openapi3.TypeNull) {
		types := append(openapi3.Types{}, s.Type.Slice()...)
		types = append(types, openapi3.TypeNull)
		out.Type = &types
		out.Nullable = false
	}

	if out.Items, err = inlineRef(s.Items, path); err != nil {
		return nil, err
	}
	if out.Not, err = inlineRef(s.Not, path); err != nil {
		return nil, err
	}
	if out.AdditionalProperties.Schema, err = inlineRef(s.AdditionalProperties.Schema, path); err != nil {
		return nil, err
	}
	if out.OneOf, err = inlineRefs(s.OneOf, path); err != nil {
		return nil, err
	}
	if out.AnyOf, err = inlineRefs(s.AnyOf, path); err != nil {
		return nil, err
	}
	if out.AllOf, err = inlineRefs(s.AllOf, path); err != nil {
		return nil, err
	}

	if s.Properties != nil {
		out.Properties = make(openapi3.Schemas, len(s.Properties))
		for name, ref := range s.Properties {
			if out.Properties[name], err = inlineRef(ref, path); err != nil {
				return nil, err
			}
		}
	}

	return &out, nil
}

func inlineRef(ref *openapi3.SchemaRef, path map[*openapi3.Schema]bool) (*openapi3.SchemaRef, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Value == nil {
		return nil, fmt.Errorf("unresolved reference %q", ref.Ref)
	}

	value, err := inline(ref.Value, path)
	if err != nil {
		return nil, err
	}

	return &openapi3.SchemaRef{Value: value}, nil
}

func inlineRefs(refs openapi3.SchemaRefs, path map[*openapi3.Schema]bool) (openapi3.SchemaRefs, error) {
	if refs == nil {
		return nil, nil
	}

	out := make(openapi3.SchemaRefs, 0, len(refs))
	for _, ref := range refs {
		inlined, err := inlineRef(ref, path)
		if err != nil {
			return nil, err
		}
		out = append(out, inlined)
	}

	return out, nil
}

func collectLeaves(err *jsonschema.ValidationError, issues *[]domain.ValidationIssue) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*issues = append(*issues, domain.ValidationIssue{Message: fmt.Sprintf("at %q: %s", location, err.Message)})
		return
	}

	for _, cause := range err.Causes {
		collectLeaves(cause, issues)
	}
}
