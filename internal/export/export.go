// Package export writes a checklist in formats meant for other tools and people:
// markdown, json, csv and a printable pdf report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/relcheck/internal/checklist"
	"github.com/idilsaglam/relcheck/internal/model"
)

// ErrUnknownFormat is returned for formats Export does not support.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists supported export formats.
var Formats = []string{"markdown", "json", "csv", "pdf"}

type jsonDoc struct {
	Meta    *model.Meta   `json:"meta,omitempty"`
	Items   []model.Item  `json:"items"`
	Stats   model.Stats   `json:"stats"`
	Verdict model.Verdict `json:"verdict"`
}

// Export writes c to w in format (case-insensitive, "md" is an alias for markdown).
func Export(w io.Writer, c *model.Checklist, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return checklist.Render(w, c)
	case "json":
		return exportJSON(w, c)
	case "csv":
		return exportCSV(w, c)
	case "pdf":
		return exportPDF(w, c)
	default:
		return fmt.Errorf("%w %q, want one of %s", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

func exportJSON(w io.Writer, c *model.Checklist) error {
	doc := jsonDoc{Items: c.Items, Stats: c.Stats(), Verdict: c.Verdict()}
	if doc.Items == nil {
		doc.Items = []model.Item{}
	}
	if !c.Meta.IsZero() {
		meta := c.Meta
		doc.Meta = &meta
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return nil
}

func exportCSV(w io.Writer, c *model.Checklist) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"test", "result", "remarks"}); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	for _, it := range c.Items {
		if err := cw.Write([]string{it.Description, it.Status.String(), it.Remark}); err != nil {
			return fmt.Errorf("csv write: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	return nil
}
