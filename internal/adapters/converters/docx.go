package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const docxFormat = "docx"

// DocxConverter renders the model as a Word (DOCX) document.
type DocxConverter struct {
	apiVersion string
}

// NewDocxConverter creates a new DOCX converter.
func NewDocxConverter(apiVersion string) *DocxConverter {
	return &DocxConverter{apiVersion: apiVersion}
}

// Format returns the output format name.
func (c *DocxConverter) Format() string {
	return docxFormat
}

// Convert writes the model as a DOCX document.
func (c *DocxConverter) Convert(spec *model.Specification, output io.Writer) error {
	doc, err := describe(spec, c.apiVersion)
	if err != nil {
		return err
	}

	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	c.addTitle(document, doc)
	c.addResources(document, doc)

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (c *DocxConverter) addTitle(document *docx.RootDoc, doc *specView) {
	_, _ = document.AddHeading(doc.Title, 0) // Level 0 = Title style
	document.AddParagraph(fmt.Sprintf("Version: %s", doc.Version))
	if doc.BaseURI != "" {
		document.AddParagraph(fmt.Sprintf("Base URI: %s", doc.BaseURI))
	}
	document.AddEmptyParagraph()
}

func (c *DocxConverter) addResources(document *docx.RootDoc, doc *specView) {
	if len(doc.Resources) == 0 {
		return
	}

	_, _ = document.AddHeading("Resources", 1)

	for _, r := range doc.Resources {
		c.addResource(document, r)
	}
}

func (c *DocxConverter) addResource(document *docx.RootDoc, r resourceView) {
	_, _ = document.AddHeading(r.URI, 2)

	if r.Parent != "" {
		document.AddParagraph(fmt.Sprintf("Nested under %s as %s", r.Parent, r.RelativeURI))
	}

	if len(r.URIParameters) > 0 {
		_, _ = document.AddHeading("URI Parameters", 3)
		c.addBullets(document, lines(formatParameters(r.URIParameters)))
	}

	for _, a := range r.Actions {
		c.addAction(document, r.URI, a)
	}
}

func (c *DocxConverter) addAction(document *docx.RootDoc, uri string, a actionView) {
	_, _ = document.AddHeading(fmt.Sprintf("%s %s", a.Method, uri), 3)

	if len(a.QueryParameters) > 0 {
		document.AddParagraph("Query parameters:")
		c.addBullets(document, lines(formatParameters(a.QueryParameters)))
	}

	if len(a.Headers) > 0 {
		document.AddParagraph("Headers:")
		c.addBullets(document, lines(formatParameters(a.Headers)))
	}

	if len(a.Body) > 0 {
		document.AddParagraph("Request body:")
		c.addBullets(document, a.Body)
	}

	if len(a.Responses) > 0 {
		document.AddParagraph("Responses:")
		c.addBullets(document, lines(formatResponses(a.Responses)))
	}

	document.AddEmptyParagraph()
}

func (c *DocxConverter) addBullets(document *docx.RootDoc, items []string) {
	for _, item := range items {
		document.AddParagraph(fmt.Sprintf("• %s", item))
	}
}

// lines splits a "- item" list produced by formatParameters or formatResponses.
func lines(list string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(list), "\n") {
		out = append(out, strings.TrimPrefix(line, "- "))
	}

	return out
}
