package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"emptylines/internal/diagfmt"
	"emptylines/internal/driver"
	"emptylines/internal/fix"
	"emptylines/internal/observ"
	"emptylines/internal/pipeline"
	"emptylines/internal/trace"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <path>...",
		Short: "Apply blank-line fixes to source files",
		Long: `Run the linter, apply the available fixes in memory and re-check until the
files settle, then write them back. Use - as the only path to fix standard
input and print the result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFix,
	}
	f := cmd.Flags()
	f.Bool("all", false, "apply all safe fixes until none are left (default)")
	f.Bool("once", false, "apply the first available fix")
	f.String("id", "", "apply the fix with a specific identifier")
	f.Bool("dry-run", false, "print a diff instead of writing files")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.String("config", "", "configuration file (default: discovered from the first path)")
	f.String("stdin-filename", "", "display name and language of stdin input")
	return cmd
}

type fixFlags struct {
	apply  fix.ApplyOptions
	dryRun bool
}

func readFixFlags(cmd *cobra.Command) (fixFlags, error) {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fixFlags{}, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fixFlags{}, err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fixFlags{}, err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fixFlags{}, err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fixFlags{}, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fixFlags{}, fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeAll
	switch {
	case targetID != "":
		mode = fix.ApplyModeID
	case applyOnce:
		mode = fix.ApplyModeOnce
	}
	return fixFlags{apply: fix.ApplyOptions{Mode: mode, TargetID: targetID}, dryRun: dryRun}, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	ff, err := readFixFlags(cmd)
	if err != nil {
		return err
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "fix")
	defer span.End("")

	timer := observ.NewTimer()
	phase := timer.Begin("config")
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	lintOpts, err := lintOptions(cmd, cfg, g)
	if err != nil {
		return err
	}
	timings := &pipeline.Timings{}
	lintOpts.Timings = timings
	timer.End(phase, cfg.Path)

	opts := driver.FixOptions{Lint: lintOpts, Apply: ff.apply, DryRun: ff.dryRun}
	out := cmd.OutOrStdout()

	if isStdin(args) {
		name, err := stdinName(cmd)
		if err != nil {
			return err
		}
		data, err := readStdin(cmd)
		if err != nil {
			return err
		}
		phase = timer.Begin("fix")
		fixed, report, err := driver.FixContent(ctx, name, data, opts)
		timer.End(phase, "stdin")
		if err != nil && !errors.Is(err, fix.ErrNoFixes) {
			return err
		}
		if ff.dryRun && report != nil {
			for _, edit := range report.Files {
				if err := diagfmt.UnifiedDiff(out, edit.Path, edit.Before, edit.After); err != nil {
					return err
				}
			}
		} else if _, err := out.Write(fixed); err != nil {
			return err
		}
		printTimings(cmd, g, timer, timings)
		return nil
	}

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
	if ff.apply.Mode == fix.ApplyModeID && len(paths) != 1 {
		// id уникален только в пределах одного файла
		return fmt.Errorf("--id can only be used with a single file")
	}

	phase = timer.Begin("fix")
	report, fixErr := driver.FixPaths(ctx, paths, opts)
	note := ""
	if report != nil {
		note = fmt.Sprintf("%d passes", report.Passes)
	}
	timer.End(phase, note)

	if ff.dryRun && report != nil {
		for _, edit := range report.Files {
			if err := diagfmt.UnifiedDiff(out, edit.Path, edit.Before, edit.After); err != nil {
				return err
			}
		}
	}
	if err := handleFixReport(out, report, fixErr, ff.dryRun, g.quiet); err != nil {
		return err
	}
	printTimings(cmd, g, timer, timings)
	return nil
}

func handleFixReport(out io.Writer, report *driver.FixReport, fixErr error, dryRun, quiet bool) error {
	if report == nil {
		return fixErr
	}
	if fixErr != nil && !errors.Is(fixErr, fix.ErrNoFixes) {
		return fixErr
	}
	if quiet {
		return nil
	}

	if len(report.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(out, "%s %d fix(es) in %d pass(es):\n", verb, len(report.Applied), report.Passes)
		for _, item := range report.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] at %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}

	if len(report.Files) > 0 && !dryRun {
		fmt.Fprintln(out, "Updated files:")
		for _, edit := range report.Files {
			fmt.Fprintf(out, "  %s (%d edits)\n", edit.Path, edit.EditCount)
		}
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range report.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if errors.Is(fixErr, fix.ErrNoFixes) {
		fmt.Fprintln(out, "No applicable fixes found.")
	}
	if report.Remaining != nil {
		if n := len(report.Remaining.Diagnostics()); n > 0 {
			fmt.Fprintf(out, "%d issue(s) need manual changes; run `emptylines check` for details.\n", n)
		}
	}
	return nil
}

func printTimings(cmd *cobra.Command, g globalFlags, timer *observ.Timer, timings *pipeline.Timings) {
	if !g.timings {
		return
	}
	timer.RecordStages(timings, pipeline.StageLoad, pipeline.StageParse, pipeline.StageCheck, pipeline.StageFix)
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
