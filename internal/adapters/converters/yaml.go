package converters

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/apicontract/internal/model"
	"go.yaml.in/yaml/v4"
)

const yamlFormat = "yaml"

// YAMLConverter dumps the normalized model as YAML.
type YAMLConverter struct {
	apiVersion string
}

// NewYAMLConverter creates a new YAML converter.
func NewYAMLConverter(apiVersion string) *YAMLConverter {
	return &YAMLConverter{apiVersion: apiVersion}
}

// Format returns the output format name.
func (c *YAMLConverter) Format() string {
	return yamlFormat
}

// Convert writes the model as a YAML document.
func (c *YAMLConverter) Convert(spec *model.Specification, output io.Writer) error {
	doc, err := describe(spec, c.apiVersion)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
