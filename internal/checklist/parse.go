// Package checklist reads and writes release checklists stored as a Markdown table
// ("Test | Result | Remarks") with optional YAML front matter.
package checklist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/idilsaglam/relcheck/internal/model"
)

var (
	// ErrNoTable means the document holds no pipe table at all.
	ErrNoTable = errors.New("checklist: no table found")
	// ErrMissingColumn means a table exists but lacks the Test or Result column.
	ErrMissingColumn = errors.New("checklist: missing required column")
	// ErrMissingDelimiter means the header is not followed by a |---| row.
	ErrMissingDelimiter = errors.New("checklist: missing delimiter row")
)

// ParseError points at the offending line of the document (1-based, counted after front matter).
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

var (
	descColumns   = []string{"test", "task", "description", "item"}
	resultColumns = []string{"result", "status"}
	remarkColumns = []string{"remarks", "remark", "notes", "comment", "comments"}

	delimCell = regexp.MustCompile(`^:?-+:?$`)
)

type columns struct {
	desc, result, remark int
}

// Parse reads a checklist document.
func Parse(r io.Reader) (*model.Checklist, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("checklist: read: %w", err)
	}
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	meta, body, offset, err := splitFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(body), "\n")
	header, cols, err := findHeader(lines)
	if err != nil {
		return nil, err
	}

	if header+1 >= len(lines) || !isDelimiter(lines[header+1]) {
		return nil, &ParseError{Line: offset + header + 2, Err: ErrMissingDelimiter}
	}

	c := &model.Checklist{Meta: meta}
	if header > 0 {
		c.Preamble = strings.Join(lines[:header], "\n") + "\n"
	}

	end := header + 2
	for ; end < len(lines) && isRow(lines[end]); end++ {
		it, err := parseRow(lines[end], cols)
		if err != nil {
			return nil, &ParseError{Line: offset + end + 1, Err: err}
		}
		c.Items = append(c.Items, it)
	}
	c.Trailer = strings.Join(lines[end:], "\n")
	return c, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*model.Checklist, error) {
	return Parse(strings.NewReader(s))
}

// findHeader returns the index of the first pipe row naming both required columns.
func findHeader(lines []string) (int, columns, error) {
	sawTable := false
	for i, ln := range lines {
		if !isRow(ln) {
			continue
		}
		sawTable = true
		if cols, ok := headerColumns(splitCells(ln)); ok {
			return i, cols, nil
		}
	}
	if sawTable {
		return 0, columns{}, ErrMissingColumn
	}
	return 0, columns{}, ErrNoTable
}

func headerColumns(cells []string) (columns, bool) {
	cols := columns{desc: -1, result: -1, remark: -1}
	for i, cell := range cells {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cols.desc < 0 && slices.Contains(descColumns, name):
			cols.desc = i
		case cols.result < 0 && slices.Contains(resultColumns, name):
			cols.result = i
		case cols.remark < 0 && slices.Contains(remarkColumns, name):
			cols.remark = i
		}
	}
	return cols, cols.desc >= 0 && cols.result >= 0
}

func parseRow(line string, cols columns) (model.Item, error) {
	cells := splitCells(line)
	cell := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return cells[i]
	}
	st, err := model.ParseStatus(cell(cols.result))
	if err != nil {
		return model.Item{}, err
	}
	return model.NewItem(cell(cols.desc), st, cell(cols.remark))
}

func isRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func isDelimiter(line string) bool {
	if !isRow(line) {
		return false
	}
	cells := splitCells(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !delimCell.MatchString(c) {
			return false
		}
	}
	return true
}

// splitCells splits a pipe row into trimmed cells. `\|` is a literal pipe and `\\` a literal
// backslash; any other backslash is kept as written.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")

	var (
		cells   []string
		cur     strings.Builder
		escaped bool
		closed  bool
	)
	for _, r := range line {
		closed = false
		switch {
		case escaped:
			if r != '|' && r != '\\' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			closed = true
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	if !closed {
		cells = append(cells, strings.TrimSpace(cur.String()))
	}
	return cells
}
