package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/model"
)

const textFormat = "text"

// TextConverter renders the model as a plain-text outline.
type TextConverter struct {
	apiVersion string
}

// NewTextConverter creates a new text converter.
func NewTextConverter(apiVersion string) *TextConverter {
	return &TextConverter{apiVersion: apiVersion}
}

// Format returns the output format name.
func (c *TextConverter) Format() string {
	return textFormat
}

// Convert writes one section per resource and action.
func (c *TextConverter) Convert(spec *model.Specification, output io.Writer) error {
	doc, err := describe(spec, c.apiVersion)
	if err != nil {
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", doc.Title, doc.Version)
	if doc.BaseURI != "" {
		fmt.Fprintf(&b, "Base URI: %s\n", doc.BaseURI)
	}

	for _, r := range doc.Resources {
		fmt.Fprintf(&b, "\n%s\n", r.URI)
		if r.Parent != "" {
			fmt.Fprintf(&b, "  parent: %s (relative %s)\n", r.Parent, r.RelativeURI)
		}
		if len(r.URIParameters) > 0 {
			b.WriteString("  URI parameters:\n")
			b.WriteString(indent(formatParameters(r.URIParameters), "    "))
		}

		for _, a := range r.Actions {
			fmt.Fprintf(&b, "  %s\n", a.Method)
			if len(a.QueryParameters) > 0 {
				b.WriteString("    Query parameters:\n")
				b.WriteString(indent(formatParameters(a.QueryParameters), "      "))
			}
			if len(a.Headers) > 0 {
				b.WriteString("    Headers:\n")
				b.WriteString(indent(formatParameters(a.Headers), "      "))
			}
			if len(a.Body) > 0 {
				fmt.Fprintf(&b, "    Body: %s\n", strings.Join(a.Body, ", "))
			}
			b.WriteString("    Responses:\n")
			b.WriteString(indent(formatResponses(a.Responses), "      "))
		}
	}

	if _, err := io.WriteString(output, b.String()); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}

	return nil
}

func indent(block, prefix string) string {
	lines := strings.SplitAfter(block, "\n")

	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	if !strings.HasSuffix(block, "\n") {
		b.WriteByte('\n')
	}

	return b.String()
}
