// Package converters renders the normalized contract model in various document formats.
package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/samber/lo"
)

// Converter renders a specification to an output format.
type Converter interface {
	Format() string
	Convert(spec *model.Specification, output io.Writer) error
}

// Formats lists the names accepted by New.
var Formats = []string{textFormat, yamlFormat, pdfFormat, docxFormat, adfFormat}

// New returns the converter for format. apiVersion replaces the {version}
// placeholder in rendered URIs.
func New(format, apiVersion string) (Converter, error) {
	switch strings.ToLower(format) {
	case textFormat, "":
		return NewTextConverter(apiVersion), nil
	case yamlFormat, "yml":
		return NewYAMLConverter(apiVersion), nil
	case pdfFormat:
		return NewPDFConverter(apiVersion), nil
	case docxFormat, "word":
		return NewDocxConverter(apiVersion), nil
	case adfFormat, "adf":
		return NewADFConverter(apiVersion), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// specView is the format-neutral view every converter renders.
type specView struct {
	Title     string         `yaml:"title"`
	Version   string         `yaml:"version"`
	BaseURI   string         `yaml:"baseUri,omitempty"`
	Resources []resourceView `yaml:"resources"`
}

type resourceView struct {
	URI           string          `yaml:"uri"`
	RelativeURI   string          `yaml:"relativeUri"`
	Parent        string          `yaml:"parent,omitempty"`
	URIParameters []parameterView `yaml:"uriParameters,omitempty"`
	Actions       []actionView    `yaml:"actions"`
}

type actionView struct {
	Method          string          `yaml:"method"`
	QueryParameters []parameterView `yaml:"queryParameters,omitempty"`
	Headers         []parameterView `yaml:"headers,omitempty"`
	Body            []string        `yaml:"body,omitempty"`
	Responses       []responseView  `yaml:"responses,omitempty"`
}

type responseView struct {
	StatusCode string          `yaml:"status"`
	Body       []string        `yaml:"body,omitempty"`
	Headers    []parameterView `yaml:"headers,omitempty"`
}

type parameterView struct {
	Name        string `yaml:"name"`
	Location    string `yaml:"in"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// describe walks the whole model. It fails when an action map cannot be built.
func describe(spec *model.Specification, apiVersion string) (*specView, error) {
	doc := &specView{
		Title:   spec.Title(),
		Version: spec.Version(),
		BaseURI: spec.ResolvedBaseURI(apiVersion),
	}

	for _, r := range spec.Resources() {
		actions, err := r.Actions()
		if err != nil {
			return nil, err
		}

		view := resourceView{
			URI:           r.ResolvedURI(apiVersion),
			RelativeURI:   r.RelativeURI(),
			URIParameters: parameterViews(r.ResolvedURIParameters()),
		}
		if r.Parent() != nil {
			view.Parent = r.ParentURI()
		}

		for method, a := range actions.All() {
			view.Actions = append(view.Actions, actionView{
				Method:          method.String(),
				QueryParameters: parameterViews(a.QueryParameters()),
				Headers:         parameterViews(a.Headers()),
				Body:            a.Body().Keys(),
				Responses:       responseViews(a.Responses()),
			})
		}

		doc.Resources = append(doc.Resources, view)
	}

	return doc, nil
}

func parameterViews(params *model.Ordered[string, *model.Parameter]) []parameterView {
	if params.Len() == 0 {
		return nil
	}

	return lo.Map(params.Values(), func(p *model.Parameter, _ int) parameterView {
		def, _ := p.Default()
		return parameterView{
			Name:        p.Name(),
			Location:    string(p.Location()),
			Type:        string(p.Type()),
			Required:    p.Required(),
			Default:     def,
			Description: p.Description(),
		}
	})
}

func responseViews(responses *model.Ordered[string, *model.Response]) []responseView {
	if responses.Len() == 0 {
		return nil
	}

	return lo.Map(responses.Values(), func(resp *model.Response, _ int) responseView {
		return responseView{
			StatusCode: resp.StatusCode(),
			Body:       resp.Bodies().Keys(),
			Headers:    parameterViews(resp.Headers()),
		}
	})
}

// formatParameters returns a formatted parameter list.
func formatParameters(params []parameterView) string {
	if len(params) == 0 {
		return "None"
	}

	var result strings.Builder

	for _, p := range params {
		result.WriteString(fmt.Sprintf("- %s\n", parameterLine(p)))
	}

	return result.String()
}

func parameterLine(p parameterView) string {
	line := fmt.Sprintf("%s (%s, %s)", p.Name, p.Location, p.Type)
	if p.Required {
		line += " required"
	}
	if p.Default != "" {
		line += fmt.Sprintf(" default=%s", p.Default)
	}
	if p.Description != "" {
		line += ": " + p.Description
	}

	return line
}

// formatResponses returns a formatted response list.
func formatResponses(responses []responseView) string {
	if len(responses) == 0 {
		return "None"
	}

	var result strings.Builder

	for _, r := range responses {
		result.WriteString(fmt.Sprintf("- %s\n", responseLine(r)))
	}

	return result.String()
}

func responseLine(r responseView) string {
	if len(r.Body) == 0 {
		return r.StatusCode
	}
	return fmt.Sprintf("%s: %s", r.StatusCode, strings.Join(r.Body, ", "))
}
