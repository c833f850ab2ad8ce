package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/go-pkgz/lgr"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/idilsaglam/relcheck/internal/cli"
	"github.com/idilsaglam/relcheck/internal/config"
	"github.com/idilsaglam/relcheck/internal/ui"
)

type options struct {
	File       string `short:"f" long:"file" env:"RELCHECK_FILE" description:"checklist file"`
	Archive    string `long:"archive" env:"RELCHECK_ARCHIVE" description:"archive database for superseded releases"`
	Config     string `short:"c" long:"config" env:"RELCHECK_CONFIG" description:"config file"`
	Group      bool   `short:"g" long:"group" env:"RELCHECK_GROUP" description:"group items by status"`
	Theme      string `long:"theme" env:"RELCHECK_THEME" choice:"unicode" choice:"ascii" description:"output theme"`
	Color      bool   `long:"color" description:"force colored output"`
	NoColor    bool   `long:"no-color" env:"RELCHECK_NO_COLOR" description:"disable colored output"`
	LogEnabled bool   `long:"log" env:"RELCHECK_LOG" description:"enable logging"`
	LogFile    string `long:"log-file" env:"RELCHECK_LOG_FILE" description:"write logs to a rotated file"`
	Dbg        bool   `long:"dbg" env:"RELCHECK_DEBUG" description:"debug mode"`
	Version    bool   `short:"V" long:"version" description:"show version"`
}

var revision = "unknown"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	p := flags.NewParser(&opts, flags.Default|flags.PassAfterNonOption)
	p.Usage = "[OPTIONS] <subcommand> [args]"
	rest, err := p.ParseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(ui.Out)
			cli.PrintHelp()
			return cli.ExitOK
		}
		return cli.ExitUsage
	}
	if opts.Version {
		fmt.Fprintf(ui.Out, "relcheck %s\n", revision)
		return cli.ExitOK
	}

	cfg, cfgPath, found, err := config.Load(opts.Config)
	if err != nil {
		ui.Fail("config: " + err.Error())
		return cli.ExitError
	}
	if err := applyOverrides(cfg, opts); err != nil {
		ui.Fail(err.Error())
		return cli.ExitUsage
	}
	setupLogs(opts.LogEnabled, opts.Dbg, cfg.Logging)
	log.Printf("[DEBUG] config %s, found %v", cfgPath, found)

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorMode(cfg.UI.Color)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return cli.Run(ctx, rest, cli.Options{
		File:         cfg.Checklist.File,
		ArchivePath:  cfg.Archive.Path,
		ConfigPath:   cfgPath,
		Group:        opts.Group,
		DefaultItems: cfg.Checklist.DefaultItems,
	})
}

// applyOverrides lets command line options win over the config file.
func applyOverrides(cfg *config.Config, opts options) error {
	if opts.File != "" {
		cfg.Checklist.File = opts.File
	}
	if opts.Archive != "" {
		p, err := config.ExpandPath(opts.Archive)
		if err != nil {
			return fmt.Errorf("--archive: %w", err)
		}
		cfg.Archive.Path = p
	}
	if opts.Theme != "" {
		cfg.UI.Theme = opts.Theme
	}
	switch {
	case opts.NoColor:
		cfg.UI.Color = config.ColorNever
	case opts.Color:
		cfg.UI.Color = config.ColorAlways
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	return nil
}

// setupLogs configures lgr and returns the writer logs go to. A configured log file
// turns logging on by itself.
func setupLogs(enabled, dbg bool, lc config.Logging) io.Writer {
	if !enabled && !dbg && lc.File == "" {
		log.Setup(log.Out(io.Discard), log.Err(io.Discard))
		return io.Discard
	}

	var out io.Writer = os.Stderr
	if lc.File != "" {
		out = &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			Compress:   false,
		}
	}

	if dbg {
		log.Setup(log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.Out(out), log.Err(out))
		return out
	}
	log.Setup(log.Msec, log.Out(out), log.Err(out))
	return out
}
