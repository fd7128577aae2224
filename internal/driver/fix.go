package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"emptylines/internal/fix"
	"emptylines/internal/pipeline"
	"emptylines/internal/source"
	"emptylines/internal/trace"
)

// DefaultMaxFixPasses bounds the fix loop in ApplyModeAll.
const DefaultMaxFixPasses = 10

// FixOptions configures FixPaths.
type FixOptions struct {
	Lint Options
	Apply fix.ApplyOptions
	// DryRun keeps files on disk untouched.
	DryRun bool
	// MaxPasses limits re-lint rounds in ApplyModeAll; <= 0 means DefaultMaxFixPasses.
	MaxPasses int
}

// FileEdit is the net change of one file across all passes. Before and After
// are LF-normalised; the bytes written to disk keep the file's BOM and line
// endings.
type FileEdit struct {
	Path      string
	EditCount int
	Before    []byte
	After     []byte
}

// FixReport summarises a fix run.
type FixReport struct {
	Passes  int
	Applied []fix.AppliedFix
	Skipped []fix.SkippedFix
	Files   []FileEdit
	// Remaining holds diagnostics of the final contents.
	Remaining *Report
}

// FixPaths lints paths, applies fixes in memory and re-lints until nothing
// changes, then writes the changed files unless DryRun is set. Once and ID
// modes run a single pass. fix.ErrNoFixes is returned when nothing applied.
func FixPaths(ctx context.Context, paths []string, opts FixOptions) (*FixReport, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "fix")
	defer span.End("")

	opts.Lint.Cache = nil
	report, err := LintPaths(ctx, paths, opts.Lint)
	if err != nil {
		return nil, err
	}
	out, err := fixLoop(ctx, report, opts)
	if err != nil || opts.DryRun {
		return out, err
	}

	started := time.Now()
	for _, edit := range out.Files {
		pipeline.Emit(opts.Lint.Progress, pipeline.Event{File: edit.Path, Stage: pipeline.StageFix, Status: pipeline.StatusWorking})
		raw, err := os.ReadFile(edit.Path)
		if err != nil {
			return out, fmt.Errorf("read %s: %w", edit.Path, err)
		}
		data, err := restoreEncoding(raw, edit.Before, edit.After)
		if err != nil {
			return out, fmt.Errorf("%s: %w", edit.Path, err)
		}
		if err := fix.WriteFileAtomic(edit.Path, data); err != nil {
			return out, fmt.Errorf("write %s: %w", edit.Path, err)
		}
		pipeline.Emit(opts.Lint.Progress, pipeline.Event{File: edit.Path, Stage: pipeline.StageFix, Status: pipeline.StatusDone})
	}
	opts.Lint.Timings.Add(pipeline.StageFix, time.Since(started))
	return out, nil
}

// FixContent fixes an in-memory buffer and returns the new content with its
// original BOM and line endings. Nothing is written to disk.
func FixContent(ctx context.Context, name string, content []byte, opts FixOptions) ([]byte, *FixReport, error) {
	out, err := fixLoop(ctx, LintContent(ctx, name, content, opts.Lint), opts)
	if err != nil {
		return content, out, err
	}
	if len(out.Files) == 0 {
		return content, out, nil
	}
	fixed, err := restoreEncoding(content, out.Files[0].Before, out.Files[0].After)
	if err != nil {
		return content, out, err
	}
	return fixed, out, nil
}

func fixLoop(ctx context.Context, report *Report, opts FixOptions) (*FixReport, error) {
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}
	if opts.Apply.Mode != fix.ApplyModeAll {
		maxPasses = 1
	}
	lintOpts := opts.Lint
	lintOpts.Cache = nil

	out := &FixReport{}
	order := make([]string, 0, len(report.Results))
	original := make(map[string][]byte, len(report.Results))
	current := make(map[string][]byte, len(report.Results))
	counts := make(map[string]int, len(report.Results))
	for _, res := range report.Results {
		if res.Err != nil {
			continue
		}
		order = append(order, res.Path)
		content := report.FileSet.Get(res.FileID).Content
		original[res.Path] = content
		current[res.Path] = content
	}

	for out.Passes < maxPasses {
		passCtx, passSpan := trace.Start(ctx, trace.ScopePass, fmt.Sprintf("fix:pass:%d", out.Passes+1))
		// правки копятся в памяти, на диск пишет только FixPaths
		res, applyErr := fix.Apply(report.FileSet, report.Diagnostics(), opts.Apply)
		out.Passes++
		if res != nil {
			out.Applied = append(out.Applied, res.Applied...)
			out.Skipped = append(out.Skipped, res.Skipped...)
		}
		if applyErr != nil {
			passSpan.End("no fixes")
			if errors.Is(applyErr, fix.ErrNoFixes) {
				break
			}
			return out, applyErr
		}

		changed := false
		for _, change := range res.FileChanges {
			path := report.FileSet.Get(change.FileID).Path
			if !bytes.Equal(current[path], change.Content) {
				changed = true
			}
			current[path] = change.Content
			counts[path] += change.EditCount
		}
		passSpan.WithExtra("files", fmt.Sprint(len(res.FileChanges))).End("")
		if !changed {
			break
		}

		var err error
		report, err = relint(passCtx, report, current, lintOpts)
		if err != nil {
			return out, err
		}
	}
	out.Remaining = report

	for _, path := range order {
		before := original[path]
		if bytes.Equal(before, current[path]) {
			continue
		}
		out.Files = append(out.Files, FileEdit{Path: path, EditCount: counts[path], Before: before, After: current[path]})
	}
	if len(out.Applied) == 0 {
		return out, fix.ErrNoFixes
	}
	return out, nil
}

// relint lints the in-memory contents of every file in prev.
func relint(ctx context.Context, prev *Report, contents map[string][]byte, opts Options) (*Report, error) {
	fileSet := source.NewFileSetWithBase(prev.FileSet.BaseDir())
	ids := make([]source.FileID, len(prev.Results))
	loadErrors := make([]error, len(prev.Results))
	for i, res := range prev.Results {
		if res.Err != nil {
			ids[i] = fileSet.AddVirtual(res.Path, nil)
			loadErrors[i] = res.Err
			continue
		}
		ids[i] = fileSet.Add(res.Path, contents[res.Path], prev.FileSet.Get(res.FileID).Flags)
	}
	return lintLoaded(ctx, fileSet, ids, loadErrors, opts)
}
