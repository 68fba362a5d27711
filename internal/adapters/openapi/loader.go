// Package openapi adapts kin-openapi documents to the contract ports of the
// domain package. OpenAPI 3.x documents are loaded directly; Swagger 2.0
// documents are converted to 3.x first.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"
)

type loadOptions struct {
	validate bool
}

// Option configures Load and LoadFile.
type Option func(*loadOptions)

// WithValidation toggles kin-openapi document validation after loading. It is
// on by default.
func WithValidation(enabled bool) Option {
	return func(o *loadOptions) {
		o.validate = enabled
	}
}

// LoadFile reads and parses the contract at path. External references are
// resolved relative to the file.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}

	return load(ctx, data, absPath, opts)
}

// Load parses a contract held in memory, in JSON or YAML.
func Load(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	return load(ctx, data, "", opts)
}

func load(ctx context.Context, data []byte, location string, opts []Option) (*Document, error) {
	o := loadOptions{validate: true}
	for _, opt := range opts {
		opt(&o)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract: %w", err)
	}

	var probe struct {
		Swagger string `json:"swagger"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse contract: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx

	var doc *openapi3.T
	switch {
	case strings.HasPrefix(probe.Swagger, "2."):
		doc, err = fromSwagger(jsonData)
	case location != "":
		doc, err = loader.LoadFromFile(location)
	default:
		doc, err = loader.LoadFromData(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	if o.validate {
		if err := doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
		}
	}

	return NewDocument(doc), nil
}

func fromSwagger(data []byte) (*openapi3.T, error) {
	var doc2 openapi2.T
	if err := json.Unmarshal(data, &doc2); err != nil {
		return nil, fmt.Errorf("failed to decode swagger document: %w", err)
	}

	doc, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return nil, fmt.Errorf("failed to convert swagger document: %w", err)
	}

	return doc, nil
}
