package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/idilsaglam/relcheck/internal/model"
	"github.com/idilsaglam/relcheck/internal/ui"
)

const maxDescriptionWidth = 60

func (r *runner) doList(ctx context.Context) int {
	c, err := r.store.Load(ctx)
	if err != nil {
		return fail("ls", err)
	}

	// Header + progress
	t := ui.Current()
	s := c.Stats()
	v := c.Verdict()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s",
		ui.C(t.Title, title(c)),
		ui.C(t.Success, t.BoxPassed), s.Passed,
		ui.C(t.Error, t.BoxFailed), s.Failed,
		ui.C(t.Pending, t.BoxTodo), s.Todo,
		ui.C(t.VerdictColor(v), strings.ToUpper(string(v))),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(s.Passed, s.Total, 28)))
	lines = append(lines, "")

	if r.opt.Group {
		lines = append(lines, groupLines(c.Items)...)
	} else {
		lines = append(lines, flatLines(c.Items, nil)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: mark with `relcheck pass 1` or `relcheck fail 2 \"reason\"`"))
	ui.Panel(lines)
	return ExitOK
}

func (r *runner) doTable(ctx context.Context) int {
	c, err := r.store.Load(ctx)
	if err != nil {
		return fail("table", err)
	}
	t := ui.Current()
	rows := make([][]string, 0, c.Len())
	for i, it := range c.Items {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			it.Description,
			ui.C(t.StatusColor(it.Status), it.Status.String()),
			it.Remark,
		})
	}
	fmt.Fprintln(ui.Out, ui.Table([]string{"#", "Test", "Result", "Remarks"}, rows, []ui.Align{ui.AlignRight}))
	return ExitOK
}

// doGate prints the verdict and the items holding the release back.
func (r *runner) doGate(ctx context.Context) int {
	c, err := r.store.Load(ctx)
	if err != nil {
		return fail("gate", err)
	}
	t := ui.Current()
	s := c.Stats()
	v := c.Verdict()
	fmt.Fprintf(ui.Out, "%s %s (%d/%d passed)\n", title(c)+":",
		ui.C(t.VerdictColor(v), strings.ToUpper(string(v))), s.Passed, s.Total)
	if v == model.VerdictReady {
		return ExitOK
	}

	var open []int
	for i, it := range c.Items {
		if it.Status != model.StatusPassed {
			open = append(open, i)
		}
	}
	for _, ln := range flatLines(c.Items, open) {
		fmt.Fprintln(ui.Out, ln)
	}
	return ExitNotReady
}

func title(c *model.Checklist) string {
	name := "Release checklist"
	if c.Meta.Release != "" {
		name += " " + c.Meta.Release
	}
	return name
}

// flatLines renders items with their 1-based index; positions limits output to those items.
func flatLines(items []model.Item, positions []int) []string {
	if positions == nil {
		positions = make([]int, len(items))
		for i := range items {
			positions[i] = i
		}
	}
	if len(positions) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	t := ui.Current()
	out := make([]string, 0, len(positions))
	for _, i := range positions {
		it := items[i]
		color := t.StatusColor(it.Status)
		line := fmt.Sprintf("%s %s %s %s",
			ui.C("\033[2m", fmt.Sprintf("%2d.", i+1)),
			ui.C(color, t.Box(it.Status)),
			ui.C(color, fmt.Sprintf("%-6s", it.Status)),
			ui.Truncate(it.Description, maxDescriptionWidth))
		if it.Remark != "" {
			line += "  " + ui.C(t.Muted, ui.Truncate(it.Remark, maxDescriptionWidth))
		}
		out = append(out, line)
	}
	return out
}

// groupLines lists items under one heading per status, in model.Statuses order.
func groupLines(items []model.Item) []string {
	t := ui.Current()
	var lines []string
	for gi, st := range model.Statuses() {
		positions := []int{}
		for i, it := range items {
			if it.Status == st {
				positions = append(positions, i)
			}
		}
		if gi > 0 {
			lines = append(lines, "")
		}
		name := st.String()
		lines = append(lines, ui.C(t.Accent, strings.ToUpper(name[:1])+name[1:]))
		if len(positions) == 0 {
			lines = append(lines, ui.C(t.Muted, "(none)"))
			continue
		}
		lines = append(lines, flatLines(items, positions)...)
	}
	return lines
}
