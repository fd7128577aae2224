package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"emptylines/internal/config"
	"emptylines/internal/diag"
	"emptylines/internal/jsfacts"
	"emptylines/internal/pipeline"
	"emptylines/internal/rules"
	"emptylines/internal/source"
	"emptylines/internal/trace"
)

// Options configures a lint run.
type Options struct {
	// Rules are the configured rules, in execution order.
	Rules []rules.Enabled
	// RootDir is the project root handed to rules for resolving base paths.
	RootDir string
	// Jobs limits concurrent workers; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps diagnostics per file; <= 0 means the Bag default.
	MaxDiagnostics int
	// Cache, when set, stores and reuses per-file results.
	Cache *DiskCache
	// Fingerprint identifies the configuration in cache keys.
	Fingerprint string
	// Progress receives per-file events; may be nil.
	Progress pipeline.ProgressSink
	// Timings accumulates stage durations; may be nil.
	Timings *pipeline.Timings
}

// Result is the outcome for one file.
type Result struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
	// Err is set when the file could not be read.
	Err error
}

// Report is the outcome of a lint run over many files.
type Report struct {
	FileSet *source.FileSet
	Results []Result
}

// Diagnostics returns every diagnostic in file order.
func (r *Report) Diagnostics() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, res := range r.Results {
		if res.Bag != nil {
			out = append(out, res.Bag.Items()...)
		}
	}
	return out
}

// Bag merges all results into a single sorted bag of capacity max.
func (r *Report) Bag(maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, res := range r.Results {
		if res.Bag != nil {
			bag.Merge(res.Bag)
		}
	}
	bag.Sort()
	bag.Dedup()
	return bag
}

// LintPaths lints every file listed in paths in parallel. Results keep the
// order of paths. Per-file failures become diagnostics; the returned error
// is reserved for cancellation.
func LintPaths(ctx context.Context, paths []string, opts Options) (*Report, error) {
	fileSet := source.NewFileSetWithBase(opts.RootDir)
	pipeline.EmitQueued(opts.Progress, paths)

	// FileSet заполняется до запуска воркеров и дальше только читается
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	for i, path := range paths {
		started := time.Now()
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
		opts.Timings.Add(pipeline.StageLoad, time.Since(started))
	}
	return lintLoaded(ctx, fileSet, fileIDs, loadErrors, opts)
}

// LintDir lints every source file under dir selected by files.
func LintDir(ctx context.Context, dir string, files config.Files, opts Options) (*Report, error) {
	paths, err := ListSourceFiles(dir, files)
	if err != nil {
		return nil, err
	}
	return LintPaths(ctx, paths, opts)
}

// lintLoaded checks already loaded files. loadErrors[i] != nil marks a file
// that could not be read.
func lintLoaded(ctx context.Context, fileSet *source.FileSet, fileIDs []source.FileID, loadErrors []error, opts Options) (*Report, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "lint")
	defer span.End("")
	span.WithExtra("files", strconv.Itoa(len(fileIDs)))

	report := &Report{FileSet: fileSet, Results: make([]Result, len(fileIDs))}
	if len(fileIDs) == 0 {
		return report, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(fileIDs)))

	for i, id := range fileIDs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			file := fileSet.Get(id)
			if loadErrors != nil && loadErrors[i] != nil {
				report.Results[i] = loadFailure(file, loadErrors[i], opts)
				return nil
			}

			// индекс i уникален для горутины, мьютекс не нужен
			report.Results[i] = lintFile(gctx, file, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func loadFailure(file *source.File, err error, opts Options) Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{File: file.ID},
		"failed to load file: "+err.Error()).Emit()
	pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
	return Result{Path: file.Path, FileID: file.ID, Bag: bag, Err: err}
}

// LintContent lints an in-memory buffer, e.g. stdin. name selects the
// grammar by extension.
func LintContent(ctx context.Context, name string, content []byte, opts Options) *Report {
	fileSet := source.NewFileSetWithBase(opts.RootDir)
	file := fileSet.Get(fileSet.AddVirtual(name, content))
	opts.Cache = nil
	return &Report{FileSet: fileSet, Results: []Result{lintFile(ctx, file, opts)}}
}

// lintFile runs parse and check for one loaded file.
func lintFile(ctx context.Context, file *source.File, opts Options) Result {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer span.End("")

	res := Result{Path: file.Path, FileID: file.ID}

	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file.Hash, opts.Fingerprint)
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			res.Bag = payloadToBag(&payload, file.ID, opts.MaxDiagnostics)
			res.Cached = true
			span.WithExtra("cached", "true")
			pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Status: pipeline.StatusCached})
			return res
		}
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	res.Bag = bag
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	started := time.Now()
	pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	facts, err := jsfacts.Parse(ctx, file)
	opts.Timings.Add(pipeline.StageParse, time.Since(started))
	if err != nil {
		diag.ReportError(reporter, diag.ParseFailed, source.Span{File: file.ID}, err.Error()).Emit()
		pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: err})
		return res
	}
	if facts.HasErrors() {
		// правила не запускаем: факты о строках и импортах ненадёжны
		diag.ReportError(reporter, diag.ParseHasErrors, facts.ErrorSpan(),
			fmt.Sprintf("syntax error in %s source; file skipped", facts.Language)).Emit()
		pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Stage: pipeline.StageParse, Status: pipeline.StatusError})
		return res
	}

	started = time.Now()
	pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Stage: pipeline.StageCheck, Status: pipeline.StatusWorking})
	rules.Run(&rules.Context{
		Ctx:      ctx,
		File:     file,
		Facts:    facts,
		Reporter: reporter,
		RootDir:  opts.RootDir,
	}, opts.Rules)
	bag.Sort()
	elapsed := time.Since(started)
	opts.Timings.Add(pipeline.StageCheck, elapsed)
	span.WithExtra("diagnostics", strconv.Itoa(bag.Len()))
	if n := reporter.Dropped(); n > 0 {
		span.WithExtra("duplicates", strconv.Itoa(n))
	}

	if ctx.Err() != nil {
		return res
	}
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, bagToPayload(file.Path, bag)); err != nil {
			trace.Point(ctx, trace.ScopeFile, "cache:put", err.Error())
		}
	}
	pipeline.Emit(opts.Progress, pipeline.Event{File: file.Path, Stage: pipeline.StageCheck, Status: pipeline.StatusDone, Elapsed: elapsed})
	return res
}
