// Package pdf renders an export document with github.com/go-pdf/fpdf.
package pdf

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"stationery/internal/infrastructure/export"
)

// DejaVu Sans Condensed covers Latin, Vietnamese, Greek and Cyrillic.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularTTF []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldTTF []byte
)

const (
	family = "DejaVu"

	pageHeight = 297.0
	margin     = 12.0
	// breakY is the cursor position past which content moves to a new page.
	breakY = pageHeight - 18.0
	lineH  = 6.0
)

var (
	reportColumns = []column{
		{"Requester", 34, "L"},
		{"Campus", 28, "L"},
		{"Import Date", 22, "C"},
		{"Export Date", 22, "C"},
		{"Items", 64, "L"},
		{"Total", 16, "R"},
	}
	stockColumns = []column{
		{"Item", 90, "L"},
		{"Quantity", 40, "R"},
		{"Last In", 56, "C"},
	}
)

type column struct {
	title string
	width float64
	align string
}

type renderer struct {
	pdf *fpdf.Fpdf
}

// Render writes doc as a PDF.
func Render(w io.Writer, doc export.Document) error {
	return render(w, doc, true)
}

func render(w io.Writer, doc export.Document, compress bool) error {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetCompression(compress)
	p.AddUTF8FontFromBytes(family, "", regularTTF)
	p.AddUTF8FontFromBytes(family, "B", boldTTF)
	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(false, 0)
	p.SetTitle(bmp(doc.Title), true)

	r := &renderer{pdf: p}
	p.AddPage()

	r.header(doc)
	r.summary("Overall Summary", doc, doc.Summary.All)

	r.section(fmt.Sprintf("Done (%d)", doc.Summary.DoneCount), doc, doc.Summary.Done, doc.Done)
	r.section(fmt.Sprintf("Process (%d)", doc.Summary.ProcessCount), doc, doc.Summary.Process, doc.Process)

	r.heading("Stock Inventory")
	r.tableHeader(stockColumns)
	for _, e := range doc.Stock {
		r.row(stockColumns, []string{e.Name, strconv.Itoa(e.Quantity), dash(e.LastInDate)})
	}

	if err := p.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return p.Output(w)
}

func (r *renderer) header(doc export.Document) {
	r.pdf.SetFont(family, "B", 18)
	r.pdf.CellFormat(0, 10, bmp(doc.Title), "", 1, "C", false, 0, "")
	r.pdf.SetFont(family, "", 11)
	r.pdf.CellFormat(0, lineH, bmp("Campus: "+doc.Campus), "", 1, "C", false, 0, "")
	r.pdf.CellFormat(0, lineH, bmp("Period: "+doc.Period), "", 1, "C", false, 0, "")
	r.pdf.CellFormat(0, lineH, bmp("Generated: "+doc.Generated), "", 1, "C", false, 0, "")
	r.pdf.Ln(4)
}

func (r *renderer) heading(title string) {
	r.ensure(lineH * 3)
	r.pdf.Ln(2)
	r.pdf.SetFont(family, "B", 13)
	r.pdf.CellFormat(0, 8, bmp(title), "B", 1, "L", false, 0, "")
	r.pdf.Ln(1)
}

func (r *renderer) summary(title string, doc export.Document, counts map[string]int) {
	r.heading(title)
	r.pdf.SetFont(family, "", 10)
	if len(counts) == 0 {
		r.line("No items.")
		return
	}
	total := 0
	for _, name := range doc.SortedItems(counts) {
		r.line(fmt.Sprintf("%s: %d", name, counts[name]))
		total += counts[name]
	}
	r.pdf.SetFont(family, "B", 10)
	r.line(fmt.Sprintf("Total items: %d", total))
}

func (r *renderer) section(title string, doc export.Document, counts map[string]int, rows []export.Row) {
	r.summary(title, doc, counts)
	if len(rows) == 0 {
		return
	}
	r.pdf.Ln(2)
	r.tableHeader(reportColumns)
	for _, row := range rows {
		r.row(reportColumns, []string{
			row.RequesterName,
			row.Campus,
			row.ImportDate,
			dash(row.ExportDate),
			row.Description,
			strconv.Itoa(row.Total),
		})
	}
}

func (r *renderer) line(text string) {
	r.ensure(lineH)
	r.pdf.CellFormat(0, lineH, bmp(text), "", 1, "L", false, 0, "")
}

func (r *renderer) tableHeader(cols []column) {
	r.ensure(lineH * 2)
	r.pdf.SetFont(family, "B", 9)
	r.pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		r.pdf.CellFormat(c.width, lineH+1, bmp(c.title), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont(family, "", 9)
}

// row draws one table row, wrapping long cells. The row height follows
// the tallest cell and the header repeats after a page break.
func (r *renderer) row(cols []column, cells []string) {
	lines := make([][]string, len(cols))
	n := 1
	for i, c := range cols {
		lines[i] = r.pdf.SplitText(bmp(cells[i]), c.width-2)
		if len(lines[i]) > n {
			n = len(lines[i])
		}
	}
	h := float64(n) * (lineH - 1)

	if r.pdf.GetY()+h > breakY {
		r.pdf.AddPage()
		r.tableHeader(cols)
	}

	x0, y0 := r.pdf.GetXY()
	x := x0
	for i, c := range cols {
		r.pdf.Rect(x, y0, c.width, h, "D")
		for j, text := range lines[i] {
			r.pdf.SetXY(x+1, y0+float64(j)*(lineH-1))
			r.pdf.CellFormat(c.width-2, lineH-1, text, "", 0, c.align, false, 0, "")
		}
		x += c.width
	}
	r.pdf.SetXY(x0, y0+h)
}

func (r *renderer) ensure(h float64) {
	if r.pdf.GetY()+h > breakY {
		r.pdf.AddPage()
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// bmp replaces runes outside the Basic Multilingual Plane, which the
// embedded font tables cannot index.
func bmp(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '\uFFFD'
		}
		return r
	}, s)
}
