package guestlist

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"wedding-planner/internal/models"
)

// PrintDelay is how long the printable page waits before opening the print dialog.
const PrintDelay = 500 * time.Millisecond

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 20px; }
  h1 { font-size: 20px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; font-size: 12px; }
  th { background: #f5f5f5; }
  .meta { color: #666; font-size: 12px; margin-bottom: 12px; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.Count}} Gäste · erstellt am {{.Generated}}</div>
<table>
<thead><tr>{{range .Labels}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<script>setTimeout(function () { window.print(); }, {{.DelayMs}});</script>
</body>
</html>
`))

type printable struct {
	Title     string
	Generated string
	Count     int
	Labels    []string
	Rows      [][]string
	DelayMs   int64
}

func project(guests []models.Guest, fields []string, title string) (printable, error) {
	fields, err := checkFields(fields)
	if err != nil {
		return printable{}, err
	}
	if title == "" {
		title = "Gästeliste"
	}

	p := printable{
		Title:     title,
		Generated: time.Now().Format("02.01.2006 15:04"),
		Count:     len(guests),
		Labels:    make([]string, len(fields)),
		Rows:      make([][]string, 0, len(guests)),
		DelayMs:   PrintDelay.Milliseconds(),
	}
	for i, f := range fields {
		p.Labels[i] = fieldLabels[f]
	}
	for _, g := range guests {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = FieldValue(g, f)
		}
		p.Rows = append(p.Rows, row)
	}
	return p, nil
}

// GeneratePrintableList renders the guests as an HTML page that opens the
// browser's print dialog shortly after loading.
func GeneratePrintableList(w io.Writer, guests []models.Guest, fields []string, title string) error {
	p, err := project(guests, fields, title)
	if err != nil {
		return err
	}
	if err := printTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render printable list: %w", err)
	}
	return nil
}

// GeneratePrintablePDF renders the same table as an A4 landscape PDF.
func GeneratePrintablePDF(w io.Writer, guests []models.Guest, fields []string, title string) error {
	p, err := project(guests, fields, title)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(p.Title, true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(p.Labels))

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		for _, l := range p.Labels {
			pdf.CellFormat(colWidth, 7, tr(l), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(p.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d Gäste · erstellt am %s", p.Count, p.Generated)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for _, row := range p.Rows {
		for _, v := range row {
			pdf.CellFormat(colWidth, 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
