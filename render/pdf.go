package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// fontFamily is the core serif font. Core fonts need no font files on disk.
const fontFamily = "Times"

// epoch is stamped as creation and modification date so identical documents
// produce identical bytes.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// PDFWriter draws a paginated Document with fpdf
type PDFWriter struct {
	Title   string
	Author  string
	Created time.Time
}

// WritePDF writes doc to w with default metadata
func WritePDF(doc Document, w io.Writer) error {
	return (&PDFWriter{Title: "Plaint"}).Write(doc, w)
}

// RenderPDF returns the PDF bytes for doc
func RenderPDF(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write draws every page of doc and writes the PDF to w
func (pw *PDFWriter) Write(doc Document, w io.Writer) error {
	width, height := doc.Width, doc.Height
	if width <= 0 || height <= 0 {
		width, height = PageWidth, PageHeight
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	created := pw.Created
	if created.IsZero() {
		created = epoch
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if pw.Title != "" {
		pdf.SetTitle(pw.Title, true)
	}
	if pw.Author != "" {
		pdf.SetAuthor(pw.Author, true)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pages := doc.Pages
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	for _, page := range pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			if line.Style == StyleHeading {
				pdf.SetFont(fontFamily, "B", HeadingFontSize)
			} else {
				pdf.SetFont(fontFamily, "", BodyFontSize)
			}
			pdf.Text(line.X, height-line.Y, tr(line.Text))
		}
		if page.Table != nil {
			drawTable(pdf, tr, page.Table, height)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t *TableRegion, height float64) {
	y := t.Top
	if t.Title != "" {
		pdf.SetFont(fontFamily, "B", HeadingFontSize)
		pdf.Text(t.X, height-(y-DefaultLineHeight), tr(t.Title))
	}
	y -= t.Heading

	pdf.SetLineWidth(0.5)
	pdf.SetFont(fontFamily, "B", TableFontSize)
	drawRow(pdf, tr, t.X, y, t.Widths, t.Header, height)
	y -= t.Header.Height

	pdf.SetFont(fontFamily, "", TableFontSize)
	for _, row := range t.Rows {
		drawRow(pdf, tr, t.X, y, t.Widths, row, height)
		y -= row.Height
	}
}

// drawRow draws one bordered row whose upper edge is at top
func drawRow(pdf *fpdf.Fpdf, tr func(string) string, x, top float64, widths []float64, row Row, height float64) {
	cx := x
	for i, cell := range row.Cells {
		w := widths[i]
		pdf.Rect(cx, height-top, w, row.Height, "D")
		for n, text := range cell.Lines {
			baseline := top - DefaultCellPad - float64(n+1)*DefaultCellHeight + 2
			pdf.Text(cx+DefaultCellPad, height-baseline, tr(text))
		}
		cx += w
	}
}
