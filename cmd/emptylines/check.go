package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"emptylines/internal/diag"
	"emptylines/internal/diagfmt"
	"emptylines/internal/driver"
	"emptylines/internal/observ"
	"emptylines/internal/pipeline"
	"emptylines/internal/source"
	"emptylines/internal/trace"
	"emptylines/internal/ui"
	"emptylines/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <path>...",
		Short: "Report blank-line policy violations",
		Long: `Lint source files or every matching file under the given directories.
Use - as the only path to read from standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.String("config", "", "configuration file (default: discovered from the first path)")
	f.Bool("preview", false, "show the text each fix would produce")
	f.Bool("no-warnings", false, "ignore warnings in diagnostics")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("with-notes", false, "include diagnostic notes in short output")
	f.Bool("cache", false, "reuse results of unchanged files across runs")
	f.String("cache-dir", "", "cache directory (implies --cache)")
	f.String("ui", "auto", "progress UI for multi-file runs (auto|on|off)")
	f.String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	f.String("stdin-filename", "", "display name and language of stdin input")
	return cmd
}

type checkFlags struct {
	format           string
	preview          bool
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	cache            bool
	cacheDir         string
	ui               uiMode
	pathMode         diagfmt.PathMode
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var c checkFlags
	var err error
	f := cmd.Flags()

	if c.format, err = f.GetString("format"); err != nil {
		return c, fmt.Errorf("failed to get format flag: %w", err)
	}
	c.format = strings.ToLower(c.format)
	switch c.format {
	case "pretty", "short", "json", "sarif":
	default:
		return c, fmt.Errorf("unknown format: %s", c.format)
	}
	if c.preview, err = f.GetBool("preview"); err != nil {
		return c, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if c.noWarnings, err = f.GetBool("no-warnings"); err != nil {
		return c, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if c.warningsAsErrors, err = f.GetBool("warnings-as-errors"); err != nil {
		return c, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if c.noWarnings && c.warningsAsErrors {
		return c, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if c.withNotes, err = f.GetBool("with-notes"); err != nil {
		return c, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if c.cache, err = f.GetBool("cache"); err != nil {
		return c, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if c.cacheDir, err = f.GetString("cache-dir"); err != nil {
		return c, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	uiFlag, err := f.GetString("ui")
	if err != nil {
		return c, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if c.ui, err = readUIMode(uiFlag); err != nil {
		return c, err
	}
	pathFlag, err := f.GetString("path-mode")
	if err != nil {
		return c, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if c.pathMode, err = diagfmt.ParsePathMode(pathFlag); err != nil {
		return c, err
	}
	return c, nil
}

// runCheck lints the given paths and prints diagnostics in the selected
// format. It returns errFindings when errors remain after the warning
// filters are applied.
func runCheck(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	c, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "check")
	defer span.End("")

	timer := observ.NewTimer()
	phase := timer.Begin("config")
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := lintOptions(cmd, cfg, g)
	if err != nil {
		return err
	}
	timings := &pipeline.Timings{}
	opts.Timings = timings
	timer.End(phase, cfg.Path)

	var report *driver.Report
	if isStdin(args) {
		name, err := stdinName(cmd)
		if err != nil {
			return err
		}
		data, err := readStdin(cmd)
		if err != nil {
			return err
		}
		phase = timer.Begin("lint")
		report = driver.LintContent(ctx, name, data, opts)
		timer.End(phase, "stdin")
	} else {
		phase = timer.Begin("discover")
		paths, err := driver.ExpandPaths(args, cfg.Files)
		if err != nil {
			return err
		}
		timer.End(phase, fmt.Sprintf("%d files", len(paths)))
		if len(paths) == 0 {
			warnf(cmd, g, "no source files found")
			return nil
		}

		if c.cache || c.cacheDir != "" {
			opts.Cache = openCache(cmd, g, c.cacheDir)
		}

		phase = timer.Begin("lint")
		report, err = lintWithProgress(ctx, cmd, g, c, paths, opts)
		if err != nil {
			return err
		}
		timer.End(phase, fmt.Sprintf("%d files, %d jobs", len(paths), opts.Jobs))
	}

	bag := report.Bag(0)
	applyWarningPolicy(bag, c)

	phase = timer.Begin("report")
	if err := writeDiagnostics(cmd.OutOrStdout(), bag, report.FileSet, g, c); err != nil {
		return err
	}
	timer.End(phase, c.format)

	if g.timings {
		timer.RecordStages(timings, pipeline.StageLoad, pipeline.StageParse, pipeline.StageCheck)
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	span.WithExtra("diagnostics", fmt.Sprint(bag.Len()))
	if bag.HasErrors() {
		return errFindings
	}
	return nil
}

// lintWithProgress runs LintPaths, rendering the progress UI when it is
// enabled for a pretty multi-file run.
func lintWithProgress(ctx context.Context, cmd *cobra.Command, g globalFlags, c checkFlags, paths []string, opts driver.Options) (*driver.Report, error) {
	out := cmd.OutOrStdout()
	if g.quiet || c.format != "pretty" || len(paths) < 2 || !shouldUseTUI(c.ui, out) {
		return driver.LintPaths(ctx, paths, opts)
	}
	return ui.RunWithProgress(out, "checking", paths, func(sink pipeline.ProgressSink) (*driver.Report, error) {
		o := opts
		o.Progress = sink
		return driver.LintPaths(ctx, paths, o)
	})
}

func openCache(cmd *cobra.Command, g globalFlags, dir string) *driver.DiskCache {
	var (
		cache *driver.DiskCache
		err   error
	)
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("emptylines")
	}
	if err != nil {
		// без кэша тоже работаем
		warnf(cmd, g, "cache disabled: %v", err)
		return nil
	}
	return cache
}

func applyWarningPolicy(bag *diag.Bag, c checkFlags) {
	switch {
	case c.noWarnings:
		bag.Filter(func(d *diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	case c.warningsAsErrors:
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}
}

func writeDiagnostics(out io.Writer, bag *diag.Bag, fs *source.FileSet, g globalFlags, c checkFlags) error {
	switch c.format {
	case "pretty":
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:       g.color,
			Context:     1,
			PathMode:    c.pathMode,
			Width:       terminalWidth(out),
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: c.preview,
		})
		if !g.quiet {
			diagfmt.PrettySummary(out, bag, g.color)
		}
		return nil
	case "short":
		return diagfmt.Short(out, bag, fs, c.withNotes)
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         c.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  c.preview,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "emptylines",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
			PathMode:       c.pathMode,
		})
	}
	return fmt.Errorf("unknown format: %s", c.format)
}
