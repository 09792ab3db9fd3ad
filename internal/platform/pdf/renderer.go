package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"kpiassess/internal/domain/reports"
)

type rgb struct {
	r, g, b int
}

var (
	colorText       = rgb{0, 0, 0}
	colorBrand      = rgb{89, 29, 7}
	colorTableHead  = rgb{191, 144, 86}
	colorHeadText   = rgb{255, 255, 255}
	colorSectionRow = rgb{242, 182, 109}
)

const (
	fontFamily  = "Helvetica"
	lineHeight  = 8.0
	labelWidth  = 50.0
	logoX       = 10.0
	logoY       = 8.0
	logoWidth   = 33.0
	signatureLn = "_____________________________"
)

var columnWidths = [3]float64{90, 60, 40}

// Renderer lays a reports.Document out on A4 pages with gofpdf core fonts.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(doc reports.Document) ([]byte, error) {
	if doc.LogoPath != "" {
		if _, err := os.Stat(doc.LogoPath); err != nil {
			return nil, fmt.Errorf("%w: logo %s: %v", reports.ErrRender, doc.LogoPath, err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("kpiassess", false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	l := layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	l.header(doc)
	l.results(doc)
	l.signatures(doc.Signatures)

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", reports.ErrRender, pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", reports.ErrRender, err)
	}
	return buf.Bytes(), nil
}

type layout struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (l layout) textColor(c rgb) {
	l.pdf.SetTextColor(c.r, c.g, c.b)
}

func (l layout) fillColor(c rgb) {
	l.pdf.SetFillColor(c.r, c.g, c.b)
}

func (l layout) header(doc reports.Document) {
	pdf := l.pdf
	if doc.LogoPath != "" {
		pdf.Image(doc.LogoPath, logoX, logoY, logoWidth, 0, false, "", 0, "")
	}

	pdf.SetFont(fontFamily, "B", 18)
	l.textColor(colorBrand)
	pdf.CellFormat(0, 10, l.tr(doc.Title), "0", 1, "C", false, 0, "")
	l.textColor(colorText)
	pdf.Ln(15)

	for _, field := range doc.Header {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(labelWidth, lineHeight, l.tr(field.Label+":"), "0", 0, "", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(0, lineHeight, l.tr(field.Value), "0", 1, "", false, 0, "")
	}

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(labelWidth, 10, l.tr(doc.OverallLabel+":"), "0", 0, "", false, 0, "")
	l.textColor(colorBrand)
	pdf.CellFormat(0, 10, l.tr(doc.OverallScore), "0", 1, "", false, 0, "")
	l.textColor(colorText)
	pdf.Ln(10)
}

func (l layout) results(doc reports.Document) {
	pdf := l.pdf
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 10, l.tr(doc.Heading), "0", 1, "L", false, 0, "")
	l.tableHeader(doc.Columns)

	tableWidth := columnWidths[0] + columnWidths[1] + columnWidths[2]
	for _, section := range doc.Sections {
		pdf.SetFont(fontFamily, "B", 11)
		l.fillColor(colorSectionRow)
		pdf.CellFormat(tableWidth, 10, l.tr(section.Label), "1", 1, "L", true, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		for _, row := range section.Rows {
			l.row([3]string{row.KPI, row.Inputs, row.Result}, [3]string{"L", "L", "C"})
		}
	}
}

func (l layout) tableHeader(columns [3]string) {
	pdf := l.pdf
	pdf.SetFont(fontFamily, "B", 10)
	l.fillColor(colorTableHead)
	l.textColor(colorHeadText)
	for i, title := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(columnWidths[i], lineHeight, l.tr(title), "1", ln, "C", true, 0, "")
	}
	l.textColor(colorText)
}

// row draws the three cells of one KPI with a shared height so wrapped text
// in any column keeps the borders aligned.
func (l layout) row(cells [3]string, aligns [3]string) {
	pdf := l.pdf
	lines := 1
	for i, cell := range cells {
		if n := len(pdf.SplitLines([]byte(l.tr(cell)), columnWidths[i])); n > lines {
			lines = n
		}
	}
	height := float64(lines) * lineHeight

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+height > pageHeight-bottom {
		pdf.AddPage()
	}

	left, _, _, _ := pdf.GetMargins()
	top := pdf.GetY()
	x := left
	for i, cell := range cells {
		pdf.SetXY(x, top)
		pdf.MultiCell(columnWidths[i], lineHeight, l.tr(cell), "", aligns[i], false)
		pdf.Rect(x, top, columnWidths[i], height, "D")
		x += columnWidths[i]
	}
	pdf.SetXY(left, top+height)
}

func (l layout) signatures(signatures []reports.Signature) {
	if len(signatures) == 0 {
		return
	}
	pdf := l.pdf
	width := (columnWidths[0] + columnWidths[1] + columnWidths[2]) / float64(len(signatures))

	pdf.Ln(25)
	pdf.SetFont(fontFamily, "", 12)
	for i := range signatures {
		pdf.CellFormat(width, 10, signatureLn, "0", lastLn(i, len(signatures)), "L", false, 0, "")
	}
	for i, signature := range signatures {
		pdf.CellFormat(width, 6, l.tr(signature.Label), "0", lastLn(i, len(signatures)), "L", false, 0, "")
	}
}

func lastLn(i, n int) int {
	if i == n-1 {
		return 1
	}
	return 0
}
