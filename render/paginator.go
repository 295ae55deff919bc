// Package render lays a plaint out on fixed-size pages and writes it as PDF.
//
// Layout is done in PDF user space: points, origin at the bottom-left
// corner, y growing upwards. The cursor starts below the top margin and
// moves down one line height per emitted line.
package render

import (
	"strings"
	"unicode"

	"plaintdraft-backend/models"
)

// A4 portrait in points.
const (
	PageWidth  = 595.2755905511812
	PageHeight = 841.8897637795277
)

// Default layout parameters.
const (
	DefaultMargin     = 50.0
	DefaultLineHeight = 14.0
	DefaultWrapWidth  = 95
	DefaultCellHeight = 11.0
	DefaultCellPad    = 3.0
)

// Font sizes.
const (
	BodyFontSize    = 11.0
	HeadingFontSize = 12.0
	TableFontSize   = 9.0
)

// Style selects the font a line is drawn with.
type Style int

const (
	StyleBody Style = iota
	StyleHeading
)

// Line is one positioned line of text. Y is the baseline.
type Line struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Style Style   `json:"style"`
}

// Cell is one table cell, already wrapped to its column.
type Cell struct {
	Lines []string `json:"lines"`
}

// Row is one table row. Height covers the tallest cell plus padding.
type Row struct {
	Cells  []Cell  `json:"cells"`
	Height float64 `json:"height"`
}

// TableRegion is a table drawn on one page. Top is the y of its upper edge.
type TableRegion struct {
	Title   string    `json:"title,omitempty"`
	X       float64   `json:"x"`
	Top     float64   `json:"top"`
	Widths  []float64 `json:"widths"`
	Header  Row       `json:"header"`
	Rows    []Row     `json:"rows"`
	Heading float64   `json:"heading"` // height reserved for the title
}

// Height is the total vertical extent of the region
func (t *TableRegion) Height() float64 {
	h := t.Heading + t.Header.Height
	for _, r := range t.Rows {
		h += r.Height
	}
	return h
}

// Page is one output page.
type Page struct {
	Lines []Line       `json:"lines"`
	Table *TableRegion `json:"table,omitempty"`
}

// Document is the paginated result.
type Document struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Pages  []Page  `json:"pages"`
}

// LineCount returns the number of text lines across all pages
func (d Document) LineCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Lines)
	}
	return n
}

// Column describes one column of the list of documents.
type Column struct {
	Header   string
	Fraction float64
	Value    func(index int, e models.DocumentEntry) string
}

// DocumentColumns are the columns of the list of documents. Fractions sum to 1.
var DocumentColumns = []Column{
	{"Sl. No.", 0.08, func(i int, _ models.DocumentEntry) string { return itoa(i + 1) }},
	{"Date", 0.13, func(_ int, e models.DocumentEntry) string { return e.Date }},
	{"Executed By", 0.17, func(_ int, e models.DocumentEntry) string { return e.ExecutedBy }},
	{"Executed To", 0.17, func(_ int, e models.DocumentEntry) string { return e.ExecutedTo }},
	{"Description", 0.27, func(_ int, e models.DocumentEntry) string { return e.Description }},
	{"Purpose", 0.18, func(_ int, e models.DocumentEntry) string { return e.Purpose }},
}

// DocumentsTitle heads the table section.
const DocumentsTitle = "LIST OF DOCUMENTS"

// Input is everything the paginator lays out, in order.
type Input struct {
	Body      string
	Documents []models.DocumentEntry
	Footer    string
}

// Paginator reflows text and the documents table onto pages.
// It holds configuration only; every Layout call starts from a blank page.
type Paginator struct {
	width      float64
	height     float64
	margin     float64
	lineHeight float64
	wrapWidth  int
	cellHeight float64
	cellPad    float64
}

// PaginatorOption is a functional option for Paginator
type PaginatorOption func(*Paginator)

// WithPageSize overrides the page size in points
func WithPageSize(width, height float64) PaginatorOption {
	return func(p *Paginator) {
		p.width, p.height = width, height
	}
}

// WithMargin overrides the margin on all four sides
func WithMargin(m float64) PaginatorOption {
	return func(p *Paginator) {
		p.margin = m
	}
}

// WithLineHeight overrides the distance between body lines
func WithLineHeight(h float64) PaginatorOption {
	return func(p *Paginator) {
		p.lineHeight = h
	}
}

// WithWrapWidth overrides the wrap column
func WithWrapWidth(w int) PaginatorOption {
	return func(p *Paginator) {
		p.wrapWidth = w
	}
}

// NewPaginator creates a paginator for A4 with the default margins
func NewPaginator(opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		width:      PageWidth,
		height:     PageHeight,
		margin:     DefaultMargin,
		lineHeight: DefaultLineHeight,
		wrapWidth:  DefaultWrapWidth,
		cellHeight: DefaultCellHeight,
		cellPad:    DefaultCellPad,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Top is the y at which the cursor starts on each page
func (p *Paginator) Top() float64 { return p.height - p.margin }

// Bottom is the margin the cursor must stay above
func (p *Paginator) Bottom() float64 { return p.margin }

// PrintableWidth is the page width minus both margins
func (p *Paginator) PrintableWidth() float64 { return p.width - 2*p.margin }

// layout is the per-call state of one Layout run
type layout struct {
	p      *Paginator
	pages  []Page
	cur    Page
	cursor float64
	fresh  bool // nothing placed on cur yet
}

func (l *layout) flush() {
	l.pages = append(l.pages, l.cur)
	l.cur = Page{}
	l.cursor = l.p.Top()
	l.fresh = true
}

func (l *layout) emitText(text string) {
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			l.blank()
			continue
		}
		style := StyleBody
		if IsHeading(para) {
			style = StyleHeading
		}
		for _, line := range Wrap(para, l.p.wrapWidth) {
			l.line(line, style)
		}
	}
}

// blank advances the cursor one line. Blank lines are not carried onto a new page.
func (l *layout) blank() {
	if l.fresh || l.cursor <= l.p.Bottom() {
		return
	}
	l.cursor -= l.p.lineHeight
}

func (l *layout) line(text string, style Style) {
	if l.cursor <= l.p.Bottom() {
		l.flush()
	}
	l.cur.Lines = append(l.cur.Lines, Line{X: l.p.margin, Y: l.cursor, Text: text, Style: style})
	l.cursor -= l.p.lineHeight
	l.fresh = false
}

// Layout paginates in. The result always has at least one page.
func (p *Paginator) Layout(in Input) Document {
	l := &layout{p: p, cursor: p.Top(), fresh: true}

	if in.Body != "" {
		l.emitText(in.Body)
	}
	if docs := (models.CaseRecord{Documents: in.Documents}).ValidDocuments(); len(docs) > 0 {
		l.table(docs)
	}
	if in.Footer != "" {
		l.blank()
		l.emitText(in.Footer)
	}

	l.pages = append(l.pages, l.cur)
	return Document{Width: p.width, Height: p.height, Pages: l.pages}
}

// table places the list of documents. The whole table moves to a fresh page
// when it does not fit below the cursor. A table taller than a page is split
// between rows, repeating the header.
func (l *layout) table(entries []models.DocumentEntry) {
	p := l.p
	widths := make([]float64, len(DocumentColumns))
	headers := make([]string, len(DocumentColumns))
	for i, col := range DocumentColumns {
		widths[i] = col.Fraction * p.PrintableWidth()
		headers[i] = col.Header
	}

	header := p.row(headers, widths)
	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		values := make([]string, len(DocumentColumns))
		for c, col := range DocumentColumns {
			values[c] = col.Value(i, e)
		}
		rows = append(rows, p.row(values, widths))
	}

	region := &TableRegion{
		Title:   DocumentsTitle,
		X:       p.margin,
		Widths:  widths,
		Header:  header,
		Rows:    rows,
		Heading: 2 * p.lineHeight,
	}

	if !l.fresh && region.Height() > l.cursor-p.Bottom() {
		l.flush()
	}

	for {
		space := l.cursor - p.Bottom()
		fit := 0
		h := region.Heading + header.Height
		for fit < len(rows) && h+rows[fit].Height <= space {
			h += rows[fit].Height
			fit++
		}
		// a single row taller than a page is still placed on its own page
		if fit == 0 && len(rows) > 0 {
			fit = 1
		}

		part := &TableRegion{
			Title:   region.Title,
			X:       region.X,
			Top:     l.cursor,
			Widths:  widths,
			Header:  header,
			Rows:    rows[:fit],
			Heading: region.Heading,
		}
		l.cur.Table = part
		l.cursor -= part.Height()
		l.fresh = false

		rows = rows[fit:]
		if len(rows) == 0 {
			return
		}
		region.Title = DocumentsTitle + " (continued)"
		l.flush()
	}
}

// row wraps each value to its column and sizes the row
func (p *Paginator) row(values []string, widths []float64) Row {
	r := Row{Cells: make([]Cell, len(values))}
	maxLines := 1
	for i, v := range values {
		cols := ColumnChars(widths[i]-2*p.cellPad, TableFontSize)
		lines := Wrap(v, cols)
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
		r.Cells[i] = Cell{Lines: lines}
	}
	r.Height = float64(maxLines)*p.cellHeight + 2*p.cellPad
	return r
}

// ColumnChars estimates how many characters of a serif font at size fit in width.
// The average glyph of Times is about half its point size wide.
func ColumnChars(width, size float64) int {
	n := int(width / (size * 0.5))
	if n < 1 {
		return 1
	}
	return n
}

// IsHeading reports whether a paragraph is drawn in the heading font:
// it has letters, none lowercase, and does not start with a digit.
func IsHeading(para string) bool {
	s := strings.TrimSpace(para)
	if s == "" {
		return false
	}
	if unicode.IsDigit([]rune(s)[0]) {
		return false
	}
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// Wrap breaks text into lines of at most width runes at word boundaries.
// A word longer than width is placed on its own line unbroken.
// Whitespace runs collapse to a single space.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width < 1 {
		width = 1
	}

	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, w := range words {
		wl := len([]rune(w))
		switch {
		case curLen == 0:
			cur.WriteString(w)
			curLen = wl
		case curLen+1+wl <= width:
			cur.WriteByte(' ')
			cur.WriteString(w)
			curLen += 1 + wl
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			curLen = wl
		}
	}
	lines = append(lines, cur.String())
	return lines
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
