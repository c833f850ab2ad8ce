package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/idilsaglam/relcheck/internal/archive"
	"github.com/idilsaglam/relcheck/internal/checklist"
	"github.com/idilsaglam/relcheck/internal/config"
	"github.com/idilsaglam/relcheck/internal/export"
	"github.com/idilsaglam/relcheck/internal/model"
	"github.com/idilsaglam/relcheck/internal/ui"
)

const shortIDLen = 8

func (r *runner) doExport(ctx context.Context, format, output string) int {
	c, err := r.store.Load(ctx)
	if err != nil {
		return fail("export", err)
	}
	var buf bytes.Buffer
	if err := export.Export(&buf, c, format); err != nil {
		return fail("export", err)
	}
	if output == "" || output == "-" {
		if _, err := ui.Out.Write(buf.Bytes()); err != nil {
			return fail("export", err)
		}
		return ExitOK
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fail("export", err)
	}
	ui.OK(fmt.Sprintf("exported %s to %s", strings.ToLower(format), output))
	return ExitOK
}

// doSupersede archives the current checklist and starts the next cycle from the same rows.
// Nothing is reset when archiving fails.
func (r *runner) doSupersede(ctx context.Context, args []string) int {
	var next string
	var words []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--next":
			if i+1 >= len(args) {
				return usage("relcheck supersede [--next <release>] [name...]")
			}
			next = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--next="):
			next = strings.TrimPrefix(args[i], "--next=")
		default:
			words = append(words, args[i])
		}
	}
	name := strings.Join(words, " ")

	arch, err := r.openArchive(ctx)
	if err != nil {
		return fail("supersede", err)
	}
	defer arch.Close()

	var rel archive.Release
	err = r.store.Update(ctx, func(c *model.Checklist) error {
		old := c.Clone()
		old.Meta.SupersededBy = next
		archived, aerr := arch.Archive(ctx, name, old)
		if aerr != nil {
			return aerr
		}
		rel = archived
		*c = *c.Reset()
		c.Meta.Release = next
		c.Meta.Date = r.opt.Now().Format("2006-01-02")
		return nil
	})
	if err != nil {
		return fail("supersede", err)
	}
	ui.OK(fmt.Sprintf("archived %s as %s (%s), checklist reset", rel.Name, shortID(rel.ID), rel.Verdict))
	return ExitOK
}

func (r *runner) doHistory(ctx context.Context) int {
	arch, err := r.openArchive(ctx)
	if err != nil {
		return fail("history", err)
	}
	defer arch.Close()

	releases, err := arch.List(ctx)
	if err != nil {
		return fail("history", err)
	}
	if len(releases) == 0 {
		ui.Hint("no archived releases")
		return ExitOK
	}
	t := ui.Current()
	rows := make([][]string, 0, len(releases))
	for _, rel := range releases {
		rows = append(rows, []string{
			shortID(rel.ID),
			rel.Name,
			rel.Version,
			rel.ArchivedAt.Format("2006-01-02 15:04"),
			fmt.Sprint(rel.Stats.Passed),
			fmt.Sprint(rel.Stats.Failed),
			fmt.Sprint(rel.Stats.Todo),
			ui.C(t.VerdictColor(rel.Verdict), string(rel.Verdict)),
		})
	}
	fmt.Fprintln(ui.Out, ui.Table(
		[]string{"ID", "Release", "Version", "Archived", "Passed", "Failed", "Todo", "Verdict"},
		rows,
		[]ui.Align{ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignRight, ui.AlignRight, ui.AlignRight},
	))
	return ExitOK
}

func (r *runner) doHistoryItems(ctx context.Context) int {
	arch, err := r.openArchive(ctx)
	if err != nil {
		return fail("history", err)
	}
	defer arch.Close()

	records, err := arch.Items(ctx)
	if err != nil {
		return fail("history", err)
	}
	if len(records) == 0 {
		ui.Hint("no archived releases")
		return ExitOK
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Description,
			fmt.Sprint(rec.Releases),
			fmt.Sprint(rec.Failed),
			fmt.Sprint(rec.Todo),
		})
	}
	fmt.Fprintln(ui.Out, ui.Table([]string{"Test", "Releases", "Failed", "Todo"}, rows,
		[]ui.Align{ui.AlignLeft, ui.AlignRight, ui.AlignRight, ui.AlignRight}))
	return ExitOK
}

func (r *runner) doRecall(ctx context.Context, id string) int {
	arch, err := r.openArchive(ctx)
	if err != nil {
		return fail("recall", err)
	}
	defer arch.Close()

	rel, c, err := arch.Get(ctx, id)
	if err != nil {
		return fail("recall", err)
	}
	log.Printf("[DEBUG] recalled %s, archived %s", rel.ID, rel.ArchivedAt)
	if err := checklist.Render(ui.Out, c); err != nil {
		return fail("recall", err)
	}
	return ExitOK
}

func (r *runner) doConfig(action string) int {
	path := r.opt.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return fail("config", err)
		}
		path = p
	}
	switch action {
	case "path":
		fmt.Fprintln(ui.Out, path)
		return ExitOK
	case "init":
		if err := config.CreateSample(path); err != nil {
			return fail("config", err)
		}
		ui.OK("wrote " + path)
		return ExitOK
	case "sample":
		fmt.Fprint(ui.Out, config.SampleConfig())
		return ExitOK
	}
	return usage("relcheck config <init|path|sample>")
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
