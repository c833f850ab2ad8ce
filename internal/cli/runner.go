package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/idilsaglam/relcheck/internal/archive"
	"github.com/idilsaglam/relcheck/internal/checklist"
	"github.com/idilsaglam/relcheck/internal/export"
	"github.com/idilsaglam/relcheck/internal/model"
	"github.com/idilsaglam/relcheck/internal/store/filestore"
	"github.com/idilsaglam/relcheck/internal/tui"
	"github.com/idilsaglam/relcheck/internal/ui"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitNotReady = 3
)

// Editor edits a checklist interactively and reports whether anything changed.
type Editor func(c *model.Checklist) (*model.Checklist, bool, error)

// Options tune behavior from root flags and config.
type Options struct {
	File         string   // checklist document
	ArchivePath  string   // superseded-release database
	ConfigPath   string   // target of `config init`
	Group        bool     // list grouped by status
	DefaultItems []string // rows created by init
	Editor       Editor   // defaults to the TUI
	Now          func() time.Time
}

type runner struct {
	opt   Options
	store *filestore.Store
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage, 3 gate not ready).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return ExitUsage
	}
	if opt.File == "" {
		p, err := filestore.DefaultPath()
		if err != nil {
			log.Printf("[WARN] can't resolve checklist path, %v", err)
			p = filestore.DefaultFileName
		}
		opt.File = p
	}
	if opt.Editor == nil {
		opt.Editor = tui.Run
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	r := &runner{opt: opt, store: filestore.New(opt.File)}
	cmd, a := args[0], args[1:]
	log.Printf("[DEBUG] subcommand %s %v, file %s", cmd, a, opt.File)

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return ExitOK

	case "init":
		return r.doInit(ctx, a)

	case "ls", "show":
		if len(a) != 0 {
			return usage("relcheck " + cmd)
		}
		return r.doList(ctx)

	case "table":
		if len(a) != 0 {
			return usage("relcheck table")
		}
		return r.doTable(ctx)

	case "add":
		if len(a) == 0 {
			return usage("relcheck add <description...>")
		}
		return r.doAdd(ctx, strings.Join(a, " "))

	case "set":
		if len(a) < 2 {
			return usage("relcheck set <index> <status> [remark...]")
		}
		st, err := model.ParseStatus(a[1])
		if err != nil {
			ui.Fail("set: " + err.Error())
			ui.Hint("Hint: status is one of passed, failed, todo")
			return ExitUsage
		}
		return r.doSet(ctx, "set", a[0], st, a[2:])

	case "pass", "fail", "todo":
		if len(a) == 0 {
			return usage("relcheck " + cmd + " <index> [remark...]")
		}
		st, _ := model.ParseStatus(cmd)
		return r.doSet(ctx, cmd, a[0], st, a[1:])

	case "remark":
		if len(a) == 0 {
			return usage("relcheck remark <index> [text...]")
		}
		return r.doRemark(ctx, a[0], strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			return usage("relcheck rm <index>")
		}
		return r.doRemove(ctx, a[0])

	case "mv":
		if len(a) != 2 {
			return usage("relcheck mv <from> <to>")
		}
		return r.doMove(ctx, a[0], a[1])

	case "gate":
		if len(a) != 0 {
			return usage("relcheck gate")
		}
		return r.doGate(ctx)

	case "export":
		if len(a) < 1 || len(a) > 2 {
			return usage("relcheck export <" + strings.Join(export.Formats, "|") + "> [output]")
		}
		out := ""
		if len(a) == 2 {
			out = a[1]
		}
		return r.doExport(ctx, a[0], out)

	case "supersede":
		return r.doSupersede(ctx, a)

	case "history":
		switch {
		case len(a) == 0:
			return r.doHistory(ctx)
		case len(a) == 1 && a[0] == "items":
			return r.doHistoryItems(ctx)
		}
		return usage("relcheck history [items]")

	case "recall":
		if len(a) != 1 {
			return usage("relcheck recall <id>")
		}
		return r.doRecall(ctx, a[0])

	case "edit":
		if len(a) != 0 {
			return usage("relcheck edit")
		}
		return r.doEdit(ctx)

	case "fmt":
		if len(a) != 0 {
			return usage("relcheck fmt")
		}
		return r.doFmt(ctx)

	case "config":
		if len(a) != 1 {
			return usage("relcheck config <init|path|sample>")
		}
		return r.doConfig(a[0])
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return ExitUsage
}

// PrintHelp writes usage to ui.Out.
func PrintHelp() {
	fmt.Fprint(ui.Out, `relcheck - release checklist in a markdown table

Usage:
  relcheck [options] <subcommand> [args]

Subcommands:
  init [--force] [release...]       Create the checklist with the default release-gate rows
  ls | show                         Show counts, progress and items
  table                             Show items as a table
  add <description...>              Append a todo item
  set <index> <status> [remark...]  Set status (passed, failed, todo) and optionally the remark
  pass|fail|todo <index> [remark...]
                                    Shorthands for set
  remark <index> [text...]          Replace the remark, no text clears it
  rm <index>                        Remove an item
  mv <from> <to>                    Move an item
  gate                              Print the verdict; exit 0 when ready, 3 otherwise
  export <format> [output]          Export as markdown, json, csv or pdf
  supersede [--next <release>] [name...]
                                    Archive the checklist and reset it for the next release
  history [items]                   List archived releases, or per-item failure counts
  recall <id>                       Print an archived checklist (id prefix is enough)
  edit                              Interactive editor
  fmt                               Rewrite the file in canonical form
  config <init|path|sample>         Write the sample config, print its path, or print the sample

Indexes are 1-based, as shown by ls.

Examples:
  relcheck init v1.4.0
  relcheck pass 1 "214 tests"
  relcheck fail 3 staging is down
  relcheck gate && make release
  relcheck supersede --next v1.5.0
`)
}

func usage(line string) int {
	ui.Fail("usage: " + line)
	return ExitUsage
}

// parseIndex converts a 1-based user index to a 0-based position.
func parseIndex(verb, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		ui.Fail(verb + ": not a number: " + s)
		return 0, false
	}
	return n - 1, true
}

// fail reports err and maps it to an exit code.
func fail(verb string, err error) int {
	ui.Fail(verb + ": " + err.Error())
	var perr *checklist.ParseError
	switch {
	case errors.Is(err, model.ErrIndexOutOfRange):
		ui.Hint("Hint: run `relcheck ls` to see valid indexes")
		return ExitUsage
	case errors.Is(err, model.ErrEmptyDescription), errors.Is(err, export.ErrUnknownFormat):
		return ExitUsage
	case errors.Is(err, filestore.ErrNotFound):
		ui.Hint("Hint: create one with `relcheck init`")
	case errors.Is(err, archive.ErrReleaseNotFound), errors.Is(err, archive.ErrAmbiguousID):
		ui.Hint("Hint: run `relcheck history` to see archived releases")
	case errors.As(err, &perr):
		ui.Hint(fmt.Sprintf("Hint: fix line %d by hand, then run `relcheck fmt`", perr.Line))
	}
	return ExitError
}

// update applies fn to the stored checklist under the file lock.
func (r *runner) update(ctx context.Context, verb, done string, fn func(c *model.Checklist) error) int {
	if err := r.store.Update(ctx, fn); err != nil {
		return fail(verb, err)
	}
	ui.OK(done)
	return ExitOK
}

func (r *runner) openArchive(ctx context.Context) (*archive.Store, error) {
	if r.opt.ArchivePath == "" {
		return nil, errors.New("no archive path configured")
	}
	return archive.New(ctx, r.opt.ArchivePath)
}
