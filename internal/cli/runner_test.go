package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/relcheck/internal/archive"
	"github.com/idilsaglam/relcheck/internal/model"
	"github.com/idilsaglam/relcheck/internal/store/filestore"
	"github.com/idilsaglam/relcheck/internal/ui"
)

type env struct {
	t       *testing.T
	dir     string
	opt     Options
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	edited  *model.Checklist
	changed bool
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{t: t, dir: dir, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	e.opt = Options{
		File:         filepath.Join(dir, "RELEASE_CHECKLIST.md"),
		ArchivePath:  filepath.Join(dir, "data", "archive.db"),
		ConfigPath:   filepath.Join(dir, "cfg", "config.toml"),
		DefaultItems: []string{"Unit tests", "Documentation", "Deploy"},
		Now:          func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) },
		Editor: func(c *model.Checklist) (*model.Checklist, bool, error) {
			if e.edited == nil {
				return c, e.changed, nil
			}
			return e.edited, e.changed, nil
		},
	}

	prevOut, prevErr := ui.Out, ui.Err
	ui.Out, ui.Err = e.out, e.errOut
	ui.SetColorForcing(false, true)
	t.Cleanup(func() {
		ui.Out, ui.Err = prevOut, prevErr
		ui.SetColorForcing(false, false)
	})
	return e
}

func (e *env) run(args ...string) int {
	e.t.Helper()
	e.out.Reset()
	e.errOut.Reset()
	return Run(context.Background(), args, e.opt)
}

func (e *env) load() *model.Checklist {
	e.t.Helper()
	c, err := filestore.New(e.opt.File).Load(context.Background())
	require.NoError(e.t, err)
	return c
}

func TestRun_Usage(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, ExitUsage, e.run())
	assert.Contains(t, e.out.String(), "Subcommands:")

	assert.Equal(t, ExitOK, e.run("help"))
	assert.Contains(t, e.out.String(), "supersede")

	assert.Equal(t, ExitUsage, e.run("bogus"))
	assert.Contains(t, e.errOut.String(), "unknown subcommand: bogus")

	tbl := []struct {
		args []string
		msg  string
	}{
		{[]string{"add"}, "usage: relcheck add"},
		{[]string{"set", "1"}, "usage: relcheck set"},
		{[]string{"pass"}, "usage: relcheck pass"},
		{[]string{"rm"}, "usage: relcheck rm"},
		{[]string{"mv", "1"}, "usage: relcheck mv"},
		{[]string{"ls", "extra"}, "usage: relcheck ls"},
		{[]string{"history", "bogus"}, "usage: relcheck history"},
		{[]string{"config", "bogus"}, "usage: relcheck config"},
		{[]string{"supersede", "--next"}, "usage: relcheck supersede"},
	}
	for _, tt := range tbl {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			assert.Equal(t, ExitUsage, e.run(tt.args...))
			assert.Contains(t, e.errOut.String(), tt.msg)
		})
	}
}

func TestRun_Init(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, ExitOK, e.run("init", "v1.0.0"))
	assert.Contains(t, e.out.String(), "created")
	c := e.load()
	assert.Equal(t, model.Meta{Release: "v1.0.0", Date: "2026-10-17"}, c.Meta)
	assert.Equal(t, "# Release checklist\n\n", c.Preamble)
	require.Len(t, c.Items, 3)
	for _, it := range c.Items {
		assert.Equal(t, model.StatusTodo, it.Status)
	}

	assert.Equal(t, ExitError, e.run("init"))
	assert.Contains(t, e.errOut.String(), "already exists")

	require.Equal(t, ExitOK, e.run("init", "--force"))
	assert.Contains(t, e.errOut.String(), "overwriting "+e.opt.File)
	assert.Empty(t, e.load().Meta.Release)
}

func TestRun_DefaultFile(t *testing.T) {
	e := newEnv(t)
	t.Chdir(e.dir)
	e.opt.File = ""

	require.Equal(t, ExitOK, e.run("init"))
	assert.FileExists(t, filepath.Join(e.dir, filestore.DefaultFileName))
	require.Equal(t, ExitOK, e.run("add", "Smoke test"))
	c, err := filestore.New(filepath.Join(e.dir, filestore.DefaultFileName)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestRun_MissingFile(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, ExitError, e.run("ls"))
	assert.Contains(t, e.errOut.String(), "relcheck init")
}

func TestRun_Mutations(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init"))

	require.Equal(t, ExitOK, e.run("add", "Publish", "to", "registry"))
	require.Equal(t, ExitOK, e.run("pass", "1", "214", "tests"))
	assert.Contains(t, e.out.String(), "marked passed")
	require.Equal(t, ExitOK, e.run("fail", "3", "staging is down"))
	require.Equal(t, ExitOK, e.run("set", "2", "ok"))
	require.Equal(t, ExitOK, e.run("remark", "2", "reviewed"))

	c := e.load()
	assert.Equal(t, []model.Item{
		{Description: "Unit tests", Status: model.StatusPassed, Remark: "214 tests"},
		{Description: "Documentation", Status: model.StatusPassed, Remark: "reviewed"},
		{Description: "Deploy", Status: model.StatusFailed, Remark: "staging is down"},
		{Description: "Publish to registry", Status: model.StatusTodo},
	}, c.Items)

	require.Equal(t, ExitOK, e.run("todo", "3"))
	assert.Equal(t, "staging is down", e.load().Items[2].Remark, "remark kept without words")

	require.Equal(t, ExitOK, e.run("remark", "3"))
	assert.Contains(t, e.out.String(), "remark cleared")
	require.Equal(t, ExitOK, e.run("mv", "4", "1"))
	require.Equal(t, ExitOK, e.run("rm", "2"))

	c = e.load()
	descs := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		descs = append(descs, it.Description)
	}
	assert.Equal(t, []string{"Publish to registry", "Documentation", "Deploy"}, descs)
	assert.Empty(t, c.Items[2].Remark)
}

func TestRun_BadArguments(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init"))
	before, err := os.ReadFile(e.opt.File)
	require.NoError(t, err)

	assert.Equal(t, ExitUsage, e.run("pass", "9"))
	assert.Contains(t, e.errOut.String(), "index out of range: have 3, got 9")
	assert.Contains(t, e.errOut.String(), "relcheck ls")

	assert.Equal(t, ExitUsage, e.run("rm", "x"))
	assert.Contains(t, e.errOut.String(), "rm: not a number: x")

	assert.Equal(t, ExitUsage, e.run("set", "1", "maybe"))
	assert.Contains(t, e.errOut.String(), "unknown status")

	assert.Equal(t, ExitUsage, e.run("mv", "1", "0"))
	assert.Equal(t, ExitUsage, e.run("add", " "))

	after, err := os.ReadFile(e.opt.File)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "failed commands leave the file alone")
}

func TestRun_EscapedCells(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init"))
	require.Equal(t, ExitOK, e.run("add", `grep -E 'a\|b'`))
	require.Equal(t, ExitOK, e.run("remark", "4", `C:\tmp\`))

	require.Equal(t, ExitOK, e.run("ls"))
	c := e.load()
	assert.Equal(t, model.Item{Description: `grep -E 'a\|b'`, Remark: `C:\tmp\`}, c.Items[3])
}

func TestRun_ListAndTable(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init", "v2"))
	require.Equal(t, ExitOK, e.run("fail", "3", "flaky"))

	require.Equal(t, ExitOK, e.run("ls"))
	out := e.out.String()
	assert.Contains(t, out, "Release checklist v2")
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, " 1. ☐ todo   Unit tests")
	assert.Contains(t, out, " 3. ☒ failed Deploy  flaky")
	assert.Contains(t, out, "0%")

	e.opt.Group = true
	require.Equal(t, ExitOK, e.run("show"))
	out = e.out.String()
	assert.Less(t, strings.Index(out, "Failed"), strings.Index(out, "Todo"))
	assert.Less(t, strings.Index(out, "Todo"), strings.Index(out, "Passed"))
	assert.Contains(t, out, "(none)", "no passed items yet")
	assert.Contains(t, out, " 3. ☒ failed Deploy")

	require.Equal(t, ExitOK, e.run("table"))
	out = e.out.String()
	assert.Contains(t, out, "Documentation")
	assert.Contains(t, out, "flaky")
	assert.Contains(t, out, "╭")
}

func TestRun_Gate(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init", "v1"))

	assert.Equal(t, ExitNotReady, e.run("gate"))
	assert.Contains(t, e.out.String(), "PENDING (0/3 passed)")

	require.Equal(t, ExitOK, e.run("fail", "2"))
	assert.Equal(t, ExitNotReady, e.run("gate"))
	assert.Contains(t, e.out.String(), "BLOCKED")
	assert.Contains(t, e.out.String(), " 2. ☒ failed Documentation")

	for _, i := range []string{"1", "2", "3"} {
		require.Equal(t, ExitOK, e.run("pass", i))
	}
	assert.Equal(t, ExitOK, e.run("gate"))
	assert.Equal(t, "Release checklist v1: READY (3/3 passed)\n", e.out.String())
}

func TestRun_Export(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init"))
	require.Equal(t, ExitOK, e.run("pass", "1"))

	require.Equal(t, ExitOK, e.run("export", "json"))
	var doc struct {
		Items   []model.Item  `json:"items"`
		Verdict model.Verdict `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal(e.out.Bytes(), &doc))
	assert.Len(t, doc.Items, 3)
	assert.Equal(t, model.VerdictPending, doc.Verdict)

	target := filepath.Join(e.dir, "out.csv")
	require.Equal(t, ExitOK, e.run("export", "CSV", target))
	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit tests", "passed", ""}, records[1])

	bad := filepath.Join(e.dir, "out.doc")
	assert.Equal(t, ExitUsage, e.run("export", "doc", bad))
	assert.NoFileExists(t, bad)
}

func TestRun_SupersedeHistoryRecall(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init", "v1.0"))
	require.Equal(t, ExitOK, e.run("pass", "1", "green"))
	require.Equal(t, ExitOK, e.run("fail", "3", "rolled back"))

	assert.Equal(t, ExitOK, e.run("history"))
	assert.Contains(t, e.errOut.String(), "no archived releases")

	require.Equal(t, ExitOK, e.run("supersede", "--next", "v1.1"))
	assert.Contains(t, e.out.String(), "archived v1.0")

	c := e.load()
	assert.Equal(t, model.Meta{Release: "v1.1", Date: "2026-10-17"}, c.Meta)
	assert.Equal(t, []model.Item{{Description: "Unit tests"}, {Description: "Documentation"}, {Description: "Deploy"}}, c.Items)

	require.Equal(t, ExitOK, e.run("history"))
	assert.Contains(t, e.out.String(), "v1.0")
	assert.Contains(t, e.out.String(), "blocked")

	require.Equal(t, ExitOK, e.run("history", "items"))
	assert.Contains(t, e.out.String(), "Deploy")

	arch, err := archive.New(context.Background(), e.opt.ArchivePath)
	require.NoError(t, err)
	releases, err := arch.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, arch.Close())
	require.Len(t, releases, 1)

	require.Equal(t, ExitOK, e.run("recall", releases[0].ID[:8]))
	out := e.out.String()
	assert.Contains(t, out, "superseded_by: v1.1")
	assert.Contains(t, out, "| Deploy")
	assert.Contains(t, out, "rolled back")

	assert.Equal(t, ExitError, e.run("recall", "zzzz"))
	assert.Contains(t, e.errOut.String(), "relcheck history")
}

func TestRun_Edit(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, ExitOK, e.run("init"))

	require.Equal(t, ExitOK, e.run("edit"))
	assert.Contains(t, e.errOut.String(), "no changes")

	e.edited = &model.Checklist{Items: []model.Item{{Description: "Only", Status: model.StatusPassed}}}
	e.changed = true
	require.Equal(t, ExitOK, e.run("edit"))
	assert.Equal(t, e.edited.Items, e.load().Items)
}

func TestRun_Fmt(t *testing.T) {
	e := newEnv(t)
	raw := "intro\n|test|status|notes|\n|:-|:-:|-|\n| a | PASS | x |\n|b|fail|\n"
	require.NoError(t, os.WriteFile(e.opt.File, []byte(raw), 0o644))

	require.Equal(t, ExitOK, e.run("fmt"))
	b, err := os.ReadFile(e.opt.File)
	require.NoError(t, err)
	assert.Equal(t, "intro\n| Test | Result | Remarks |\n| ---- | ------ | ------- |\n| a    | passed | x       |\n| b    | failed |         |\n", string(b))
}

func TestRun_Config(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, ExitOK, e.run("config", "path"))
	assert.Equal(t, e.opt.ConfigPath+"\n", e.out.String())

	require.Equal(t, ExitOK, e.run("config", "init"))
	assert.FileExists(t, e.opt.ConfigPath)
	assert.Equal(t, ExitError, e.run("config", "init"))

	require.Equal(t, ExitOK, e.run("config", "sample"))
	written, err := os.ReadFile(e.opt.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, string(written), e.out.String())
	assert.Contains(t, e.out.String(), "[log]")
}
