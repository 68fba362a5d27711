package converters

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFormat      = "pdf"
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
	pdfLineHeight  = 5.0
)

var methodColors = map[string][3]int{
	"GET":     {97, 175, 254},  // Blue
	"POST":    {73, 204, 144},  // Green
	"PUT":     {252, 161, 48},  // Orange
	"DELETE":  {249, 62, 62},   // Red
	"PATCH":   {80, 227, 194},  // Teal
	"HEAD":    {144, 97, 249},  // Purple
	"OPTIONS": {128, 128, 128}, // Gray
}

// PDFConverter renders the model as a PDF document.
type PDFConverter struct {
	apiVersion string
	pdf        *gofpdf.Fpdf
	tocItems   []tocItem
}

type tocItem struct {
	title  string
	level  int
	linkID int
}

// NewPDFConverter creates a new PDF converter.
func NewPDFConverter(apiVersion string) *PDFConverter {
	return &PDFConverter{apiVersion: apiVersion}
}

// Format returns the output format name.
func (c *PDFConverter) Format() string {
	return pdfFormat
}

// Convert writes a title page, a linked table of contents and one section per resource.
func (c *PDFConverter) Convert(spec *model.Specification, output io.Writer) error {
	doc, err := describe(spec, c.apiVersion)
	if err != nil {
		return err
	}

	c.pdf = gofpdf.New("P", "mm", "A4", "")
	c.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	c.pdf.SetDrawColor(180, 180, 180) // Light gray for all borders
	c.tocItems = nil

	// First pass: reserve a link per TOC entry
	c.collectTOC(doc)

	c.addTitlePage(doc)
	c.addTableOfContents()
	c.addContent(doc)

	if err := c.pdf.Output(output); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

func (c *PDFConverter) collectTOC(doc *specView) {
	c.tocItems = append(c.tocItems, tocItem{title: "Resources", level: 1, linkID: c.pdf.AddLink()})

	for _, r := range doc.Resources {
		c.tocItems = append(c.tocItems, tocItem{title: r.URI, level: 2, linkID: c.pdf.AddLink()})
	}
}

func (c *PDFConverter) addTitlePage(doc *specView) {
	c.pdf.AddPage()

	c.pdf.SetFont("Arial", "B", 28)
	c.pdf.Ln(40)
	c.pdf.CellFormat(pdfPageWidth, 15, doc.Title, "", 1, "C", false, 0, "")
	c.pdf.Ln(5)

	c.pdf.SetFont("Arial", "", 14)
	c.pdf.SetTextColor(100, 100, 100)
	c.pdf.CellFormat(pdfPageWidth, 8, fmt.Sprintf("Version %s", doc.Version), "", 1, "C", false, 0, "")

	if doc.BaseURI != "" {
		c.pdf.SetFont("Arial", "", 11)
		c.pdf.SetTextColor(0, 102, 204)
		c.pdf.CellFormat(pdfPageWidth, 8, doc.BaseURI, "", 1, "C", false, 0, "")
	}

	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.Ln(50)

	c.pdf.SetFont("Arial", "", 10)
	c.pdf.SetTextColor(128, 128, 128)
	c.pdf.CellFormat(pdfPageWidth, 6, fmt.Sprintf("%d resources", len(doc.Resources)), "", 1, "C", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFConverter) addTableOfContents() {
	c.pdf.AddPage()

	c.pdf.SetFont("Arial", "B", 20)
	c.pdf.CellFormat(pdfPageWidth, 10, "Table of Contents", "", 1, "", false, 0, "")
	c.pdf.Ln(8)

	for _, item := range c.tocItems {
		indent := float64(item.level-1) * 8

		if item.level == 1 {
			c.pdf.SetFont("Arial", "B", 12)
		} else {
			c.pdf.SetFont("Arial", "", 10)
		}

		c.pdf.SetX(pdfMarginLeft + indent)
		title := item.title
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		c.pdf.CellFormat(pdfPageWidth-indent, pdfLineHeight+1, title, "", 1, "", false, item.linkID, "")
	}
}

func (c *PDFConverter) addContent(doc *specView) {
	c.pdf.AddPage()
	c.setLinkDest(0)
	c.addSectionHeader("Resources")

	for i, r := range doc.Resources {
		c.checkPageBreak(50)
		c.setLinkDest(i + 1)
		c.addResource(r)
	}
}

func (c *PDFConverter) setLinkDest(tocIndex int) {
	if tocIndex < len(c.tocItems) {
		c.pdf.SetLink(c.tocItems[tocIndex].linkID, -1, -1)
	}
}

func (c *PDFConverter) addSectionHeader(title string) {
	c.pdf.SetFont("Arial", "B", 18)
	c.pdf.CellFormat(pdfPageWidth, 10, title, "", 1, "", false, 0, "")
	c.pdf.Ln(4)
}

func (c *PDFConverter) addResource(r resourceView) {
	c.pdf.SetFont("Arial", "B", 14)
	c.pdf.SetFillColor(240, 240, 240)
	c.pdf.CellFormat(pdfPageWidth, 8, r.URI, "", 1, "", true, 0, "")
	c.pdf.Ln(2)

	if r.Parent != "" {
		c.pdf.SetFont("Arial", "", 8)
		c.pdf.SetTextColor(128, 128, 128)
		c.pdf.CellFormat(pdfPageWidth, 4, fmt.Sprintf("Nested under %s as %s", r.Parent, r.RelativeURI), "", 1, "", false, 0, "")
		c.pdf.SetTextColor(0, 0, 0)
		c.pdf.Ln(2)
	}

	if len(r.URIParameters) > 0 {
		c.addSubHeader("URI Parameters")
		c.addParameterTable(r.URIParameters)
	}

	for _, a := range r.Actions {
		c.checkPageBreak(30)
		c.addAction(r.URI, a)
	}

	c.pdf.Ln(4)
}

func (c *PDFConverter) addAction(uri string, a actionView) {
	c.pdf.SetFont("Arial", "B", 11)

	color, ok := methodColors[a.Method]
	if !ok {
		color = [3]int{128, 128, 128}
	}

	c.pdf.SetFillColor(color[0], color[1], color[2])
	c.pdf.SetTextColor(255, 255, 255)
	methodWidth := float64(len(a.Method)*3) + 8
	c.pdf.CellFormat(methodWidth, 7, a.Method, "", 0, "C", true, 0, "")

	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.CellFormat(pdfPageWidth-methodWidth, 7, " "+uri, "", 1, "", false, 0, "")
	c.pdf.Ln(2)

	if len(a.QueryParameters) > 0 {
		c.addSubHeader("Query Parameters")
		c.addParameterTable(a.QueryParameters)
	}

	if len(a.Headers) > 0 {
		c.addSubHeader("Headers")
		c.addParameterTable(a.Headers)
	}

	if len(a.Body) > 0 {
		c.addSubHeader("Request Body")
		c.addTableHeader([]float64{pdfPageWidth}, []string{"Content-Type"})
		c.pdf.SetFont("Arial", "", 8)
		for _, mediaType := range a.Body {
			c.addTableRow([]float64{pdfPageWidth}, []string{mediaType}, []string{"L"})
		}
		c.pdf.Ln(3)
	}

	if len(a.Responses) > 0 {
		c.addSubHeader("Responses")
		c.addResponseTable(a.Responses)
	}

	// Separator
	c.pdf.Ln(2)
	c.pdf.SetDrawColor(220, 220, 220)
	c.pdf.Line(pdfMarginLeft, c.pdf.GetY(), pdfMarginLeft+pdfPageWidth, c.pdf.GetY())
	c.pdf.SetDrawColor(180, 180, 180) // Reset to standard light gray
	c.pdf.Ln(6)
}

func (c *PDFConverter) addSubHeader(title string) {
	c.pdf.SetFont("Arial", "B", 10)
	c.pdf.SetTextColor(60, 60, 60)
	c.pdf.CellFormat(pdfPageWidth, 6, title, "", 1, "", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFConverter) addTableHeader(colWidths []float64, headers []string) {
	c.pdf.SetFont("Arial", "B", 8)
	c.pdf.SetFillColor(245, 245, 245)

	for i, header := range headers {
		c.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	c.pdf.Ln(-1)
}

func (c *PDFConverter) addParameterTable(params []parameterView) {
	colWidths := []float64{35, 20, 20, 25, 90}
	c.addTableHeader(colWidths, []string{"Name", "Type", "Required", "Default", "Description"})

	c.pdf.SetFont("Arial", "", 8)
	for _, p := range params {
		required := "No"
		if p.Required {
			required = "Yes"
		}

		contents := []string{p.Name, p.Type, required, p.Default, stripHTML(p.Description)}
		c.addTableRow(colWidths, contents, []string{"L", "L", "C", "L", "L"})
	}
	c.pdf.Ln(3)
}

func (c *PDFConverter) addResponseTable(responses []responseView) {
	colWidths := []float64{25, 90, 75}
	c.addTableHeader(colWidths, []string{"Status", "Content-Type", "Headers"})

	c.pdf.SetFont("Arial", "", 8)
	for _, resp := range responses {
		headers := make([]string, 0, len(resp.Headers))
		for _, h := range resp.Headers {
			headers = append(headers, h.Name)
		}

		contents := []string{resp.StatusCode, strings.Join(resp.Body, "\n"), strings.Join(headers, ", ")}
		c.addTableRow(colWidths, contents, []string{"C", "L", "L"})
	}
	c.pdf.Ln(3)
}

func (c *PDFConverter) checkPageBreak(height float64) {
	_, pageHeight := c.pdf.GetPageSize()
	_, _, _, bottomMargin := c.pdf.GetMargins()

	if c.pdf.GetY()+height > pageHeight-bottomMargin-10 {
		c.pdf.AddPage()
	}
}

func (c *PDFConverter) addTableRow(colWidths []float64, contents []string, aligns []string) {
	// Row height follows the cell that wraps the most
	maxLines := 1
	for i, content := range contents {
		lines := c.pdf.SplitLines([]byte(content), colWidths[i])
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	rowHeight := float64(maxLines) * pdfLineHeight

	c.checkPageBreak(rowHeight)

	startX := c.pdf.GetX()
	startY := c.pdf.GetY()

	for i, content := range contents {
		width := colWidths[i]

		align := ""
		if len(aligns) > i {
			align = aligns[i]
		}

		c.pdf.SetXY(startX, startY)
		c.pdf.MultiCell(width, pdfLineHeight, content, "0", align, false)
		c.pdf.Rect(startX, startY, width, rowHeight, "D")

		startX += width
	}

	c.pdf.SetXY(pdfMarginLeft, startY+rowHeight)
}

func stripHTML(s string) string {
	// Simple HTML tag removal
	result := s
	for {
		start := strings.Index(result, "<")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], ">")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}
	// Clean up common HTML entities
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	result = strings.ReplaceAll(result, "\n\n", "\n")
	return strings.TrimSpace(result)
}
