package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/idilsaglam/relcheck/internal/model"
)

type rgb struct{ r, g, b int }

var statusFill = map[model.Status]rgb{
	model.StatusPassed: {198, 239, 206},
	model.StatusFailed: {255, 199, 206},
	model.StatusTodo:   {230, 230, 230},
}

// column widths in mm, A4 portrait leaves 190mm between 10mm margins
var pdfCols = [3]float64{80, 25, 85}

func exportPDF(w io.Writer, c *model.Checklist) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	title := "Release checklist"
	if c.Meta.Release != "" {
		title += " " + c.Meta.Release
	}
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, ln := range metaLines(c.Meta) {
		pdf.CellFormat(0, 6, tr(ln), "", 1, "L", false, 0, "")
	}

	st := c.Stats()
	pdf.SetFont("Arial", "B", 11)
	summary := fmt.Sprintf("Verdict: %s   passed %d  failed %d  todo %d  total %d",
		strings.ToUpper(string(c.Verdict())), st.Passed, st.Failed, st.Todo, st.Total)
	pdf.Ln(2)
	pdf.CellFormat(0, 8, summary, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFillColor(60, 60, 60)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Test", "Result", "Remarks"} {
		pdf.CellFormat(pdfCols[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, it := range c.Items {
		fill := statusFill[it.Status]
		pdf.SetFillColor(fill.r, fill.g, fill.b)
		pdf.CellFormat(pdfCols[0], 7, fit(pdf, tr, it.Description, pdfCols[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfCols[1], 7, it.Status.String(), "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfCols[2], 7, fit(pdf, tr, it.Remark, pdfCols[2]), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf output: %w", err)
	}
	return nil
}

func metaLines(m model.Meta) []string {
	var res []string
	add := func(label, v string) {
		if v != "" {
			res = append(res, label+": "+v)
		}
	}
	add("Version", m.Version)
	add("Date", m.Date)
	add("Owner", m.Owner)
	add("Superseded by", m.SupersededBy)
	return res
}

// fit translates s with tr and truncates it with an ellipsis so it fits a cell of width mm.
// Widths are measured on the translated text, the one the font actually draws.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	const pad = 2
	if out := tr(s); pdf.GetStringWidth(out)+pad <= width {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"..."))+pad > width {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
