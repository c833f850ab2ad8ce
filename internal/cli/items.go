package cli

import (
	"context"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/idilsaglam/relcheck/internal/model"
	"github.com/idilsaglam/relcheck/internal/ui"
)

const defaultPreamble = "# Release checklist\n\n"

func (r *runner) doInit(ctx context.Context, args []string) int {
	force := false
	var words []string
	for _, a := range args {
		if a == "--force" || a == "-f" {
			force = true
			continue
		}
		words = append(words, a)
	}
	if r.store.Exists() && !force {
		ui.Fail("init: " + r.store.Path() + " already exists")
		ui.Hint("Hint: pass --force to overwrite it")
		return ExitError
	}
	if r.store.Exists() {
		ui.Warn("overwriting " + r.store.Path())
	}

	c := &model.Checklist{
		Meta:     model.Meta{Release: strings.TrimSpace(strings.Join(words, " ")), Date: r.opt.Now().Format("2006-01-02")},
		Preamble: defaultPreamble,
	}
	for _, desc := range r.opt.DefaultItems {
		if err := c.Add(desc, model.StatusTodo, ""); err != nil {
			log.Printf("[WARN] skip default item %q, %v", desc, err)
		}
	}
	if err := r.store.Save(ctx, c); err != nil {
		return fail("init", err)
	}
	ui.OK(fmt.Sprintf("created %s with %d items", r.store.Path(), c.Len()))
	return ExitOK
}

func (r *runner) doAdd(ctx context.Context, description string) int {
	return r.update(ctx, "add", "added", func(c *model.Checklist) error {
		return c.Add(description, model.StatusTodo, "")
	})
}

// doSet sets the status of one item; the remark is replaced only when words are given.
func (r *runner) doSet(ctx context.Context, verb, index string, st model.Status, remark []string) int {
	i, ok := parseIndex(verb, index)
	if !ok {
		return ExitUsage
	}
	return r.update(ctx, verb, "marked "+st.String(), func(c *model.Checklist) error {
		if err := c.SetStatus(i, st); err != nil {
			return err
		}
		if len(remark) == 0 {
			return nil
		}
		return c.SetRemark(i, strings.TrimSpace(strings.Join(remark, " ")))
	})
}

func (r *runner) doRemark(ctx context.Context, index, text string) int {
	i, ok := parseIndex("remark", index)
	if !ok {
		return ExitUsage
	}
	text = strings.TrimSpace(text)
	done := "remark updated"
	if text == "" {
		done = "remark cleared"
	}
	return r.update(ctx, "remark", done, func(c *model.Checklist) error {
		return c.SetRemark(i, text)
	})
}

func (r *runner) doRemove(ctx context.Context, index string) int {
	i, ok := parseIndex("rm", index)
	if !ok {
		return ExitUsage
	}
	return r.update(ctx, "rm", "removed", func(c *model.Checklist) error {
		_, err := c.Remove(i)
		return err
	})
}

func (r *runner) doMove(ctx context.Context, from, to string) int {
	i, ok := parseIndex("mv", from)
	if !ok {
		return ExitUsage
	}
	j, ok := parseIndex("mv", to)
	if !ok {
		return ExitUsage
	}
	return r.update(ctx, "mv", "moved", func(c *model.Checklist) error {
		return c.Move(i, j)
	})
}

func (r *runner) doFmt(ctx context.Context) int {
	return r.update(ctx, "fmt", "formatted "+r.store.Path(), func(*model.Checklist) error { return nil })
}

func (r *runner) doEdit(ctx context.Context) int {
	c, err := r.store.Load(ctx)
	if err != nil {
		return fail("edit", err)
	}
	edited, changed, err := r.opt.Editor(c)
	if err != nil {
		return fail("edit", err)
	}
	if !changed {
		ui.Hint("no changes")
		return ExitOK
	}
	if err := r.store.Save(ctx, edited); err != nil {
		return fail("edit", err)
	}
	ui.OK("saved " + r.store.Path())
	return ExitOK
}
