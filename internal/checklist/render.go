package checklist

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/idilsaglam/relcheck/internal/model"
)

var header = [3]string{"Test", "Result", "Remarks"}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// Render writes c in canonical form: front matter (when set), preamble, an aligned
// three-column table and the trailer.
func Render(w io.Writer, c *model.Checklist) error {
	var buf bytes.Buffer
	if err := writeFrontMatter(&buf, c.Meta); err != nil {
		return err
	}
	buf.WriteString(c.Preamble)
	if c.Preamble != "" && !strings.HasSuffix(c.Preamble, "\n") {
		buf.WriteString("\n")
	}
	writeTable(&buf, c.Items)
	buf.WriteString(c.Trailer)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("checklist: write: %w", err)
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(c *model.Checklist) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, c); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeTable(buf *bytes.Buffer, items []model.Item) {
	rows := make([][3]string, 0, len(items))
	widths := [3]int{}
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, it := range items {
		row := [3]string{cellEscaper.Replace(it.Description), it.Status.String(), cellEscaper.Replace(it.Remark)}
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
		rows = append(rows, row)
	}

	writeRow(buf, header, widths)
	var delim [3]string
	for i, wd := range widths {
		delim[i] = strings.Repeat("-", wd)
	}
	writeRow(buf, delim, widths)
	for _, row := range rows {
		writeRow(buf, row, widths)
	}
}

func writeRow(buf *bytes.Buffer, cells [3]string, widths [3]int) {
	buf.WriteString("|")
	for i, cell := range cells {
		buf.WriteString(" ")
		buf.WriteString(runewidth.FillRight(cell, widths[i]))
		buf.WriteString(" |")
	}
	buf.WriteString("\n")
}
