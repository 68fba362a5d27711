package converters

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/model"
)

const adfFormat = "confluence"

// ADFConverter renders the model as Atlassian Document Format (ADF) for Confluence.
type ADFConverter struct {
	apiVersion string
}

// NewADFConverter creates a new ADF converter.
func NewADFConverter(apiVersion string) *ADFConverter {
	return &ADFConverter{apiVersion: apiVersion}
}

// Format returns the output format name.
func (c *ADFConverter) Format() string {
	return adfFormat
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level int `json:"level,omitempty"`
}

type adfMark struct {
	Type string `json:"type"`
}

// Convert writes the model as ADF JSON.
func (c *ADFConverter) Convert(spec *model.Specification, output io.Writer) error {
	doc, err := describe(spec, c.apiVersion)
	if err != nil {
		return err
	}

	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{},
	}

	adf.Content = append(adf.Content, c.heading(doc.Title, 1))
	adf.Content = append(adf.Content, c.paragraph(fmt.Sprintf("Version: %s", doc.Version)))

	if doc.BaseURI != "" {
		adf.Content = append(adf.Content, adfNode{
			Type:    "paragraph",
			Content: []adfNode{{Type: "text", Text: "Base URI: "}, c.codeText(doc.BaseURI)},
		})
	}

	if len(doc.Resources) > 0 {
		adf.Content = append(adf.Content, c.heading("Resources", 2))

		for _, r := range doc.Resources {
			adf.Content = append(adf.Content, c.resourceNodes(r)...)
		}
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (c *ADFConverter) heading(text string, level int) adfNode {
	return adfNode{
		Type:    "heading",
		Attrs:   &adfAttrs{Level: level},
		Content: []adfNode{{Type: "text", Text: text}},
	}
}

func (c *ADFConverter) paragraph(text string) adfNode {
	return adfNode{
		Type:    "paragraph",
		Content: []adfNode{{Type: "text", Text: text}},
	}
}

func (c *ADFConverter) boldText(text string) adfNode {
	return adfNode{Type: "text", Text: text, Marks: []adfMark{{Type: "strong"}}}
}

func (c *ADFConverter) codeText(text string) adfNode {
	return adfNode{Type: "text", Text: text, Marks: []adfMark{{Type: "code"}}}
}

func (c *ADFConverter) resourceNodes(r resourceView) []adfNode {
	nodes := []adfNode{c.heading(r.URI, 3)}

	if r.Parent != "" {
		nodes = append(nodes, adfNode{
			Type: "paragraph",
			Content: []adfNode{
				{Type: "text", Text: "Nested under "},
				c.codeText(r.Parent),
				{Type: "text", Text: " as "},
				c.codeText(r.RelativeURI),
			},
		})
	}

	if len(r.URIParameters) > 0 {
		nodes = append(nodes, c.heading("URI Parameters", 4), c.parameterList(r.URIParameters))
	}

	for _, a := range r.Actions {
		nodes = append(nodes, c.actionNodes(r.URI, a)...)
	}

	return nodes
}

func (c *ADFConverter) actionNodes(uri string, a actionView) []adfNode {
	nodes := []adfNode{{
		Type:    "paragraph",
		Content: []adfNode{c.boldText(a.Method), {Type: "text", Text: " " + uri}},
	}}

	if len(a.QueryParameters) > 0 {
		nodes = append(nodes, c.heading("Query Parameters", 5), c.parameterList(a.QueryParameters))
	}

	if len(a.Headers) > 0 {
		nodes = append(nodes, c.heading("Headers", 5), c.parameterList(a.Headers))
	}

	if len(a.Body) > 0 {
		nodes = append(nodes, c.heading("Request Body", 5), c.codeList(a.Body))
	}

	if len(a.Responses) > 0 {
		nodes = append(nodes, c.heading("Responses", 5), c.responseList(a.Responses))
	}

	// Divider between actions
	nodes = append(nodes, adfNode{Type: "rule"})

	return nodes
}

func (c *ADFConverter) listItem(content ...adfNode) adfNode {
	return adfNode{
		Type:    "listItem",
		Content: []adfNode{{Type: "paragraph", Content: content}},
	}
}

func (c *ADFConverter) parameterList(params []parameterView) adfNode {
	items := make([]adfNode, 0, len(params))

	for _, p := range params {
		rest := strings.TrimPrefix(parameterLine(p), p.Name)
		items = append(items, c.listItem(c.codeText(p.Name), adfNode{Type: "text", Text: rest}))
	}

	return adfNode{Type: "bulletList", Content: items}
}

func (c *ADFConverter) codeList(values []string) adfNode {
	items := make([]adfNode, 0, len(values))

	for _, v := range values {
		items = append(items, c.listItem(c.codeText(v)))
	}

	return adfNode{Type: "bulletList", Content: items}
}

func (c *ADFConverter) responseList(responses []responseView) adfNode {
	items := make([]adfNode, 0, len(responses))

	for _, resp := range responses {
		content := []adfNode{c.codeText(resp.StatusCode)}
		if len(resp.Body) > 0 {
			content = append(content, adfNode{Type: "text", Text: ": " + strings.Join(resp.Body, ", ")})
		}
		items = append(items, c.listItem(content...))
	}

	return adfNode{Type: "bulletList", Content: items}
}
