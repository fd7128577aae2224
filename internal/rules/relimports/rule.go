package relimports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"emptylines/internal/diag"
	"emptylines/internal/fix"
	"emptylines/internal/rules"
	"emptylines/internal/source"
)

// Name is the configuration key of the rule.
const Name = "no-relative-parent-imports"

// Message is reported for every offending specifier.
const Message = "no relative parent imports"

// Options configure the rule.
type Options struct {
	// BaseURL is the project-relative directory imports may be rewritten
	// against. Empty disables the fix.
	BaseURL string
}

// ParseOptions validates decoded options. Both `base-url` and `baseUrl`
// spellings are accepted.
func ParseOptions(options map[string]any) (Options, error) {
	var opts Options
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch key {
		case "severity":
		case "base-url", "baseUrl":
			s, ok := options[key].(string)
			if !ok {
				return Options{}, &rules.OptionError{Rule: Name, Key: key, Reason: fmt.Sprintf("expected a string, got %T", options[key])}
			}
			if filepath.IsAbs(s) {
				return Options{}, &rules.OptionError{Rule: Name, Key: key, Reason: "must be relative to the project root"}
			}
			opts.BaseURL = s
		default:
			return Options{}, &rules.OptionError{Rule: Name, Key: key, Reason: "unknown option (expected base-url)"}
		}
	}
	return opts, nil
}

// Rule reports `../` module specifiers that resolve to a file.
type Rule struct {
	opts     Options
	resolver Resolver
}

// New builds the rule with the file-system resolver.
func New(options map[string]any) (rules.Rule, error) {
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	return NewWithResolver(opts, FSResolver{}), nil
}

func NewWithResolver(opts Options, resolver Resolver) *Rule {
	return &Rule{opts: opts, resolver: resolver}
}

func (r *Rule) Name() string { return Name }

func (r *Rule) Check(ctx *rules.Context) {
	file := ctx.File
	// у виртуальных файлов нет каталога, относительно которого резолвить
	if file.Flags&source.FileVirtual != 0 || ctx.Facts == nil {
		return
	}
	fileDir := filepath.Dir(absolute(file.Path))

	for _, src := range ctx.Facts.ImportSources() {
		if !strings.HasPrefix(src.Value, "../") {
			continue
		}
		if _, ok := r.resolver.Resolve(fileDir, src.Value); !ok {
			continue
		}
		b := diag.NewReportBuilder(ctx.Reporter, ctx.Severity, diag.ImportRelativeParent, src.Span, Message)
		if f, ok := r.rewrite(ctx, file, fileDir, src); ok {
			b.WithFixSuggestion(f)
		}
		b.Emit()
	}
}

// rewrite replaces the specifier with its path relative to the base URL
// when the target lies under it.
func (r *Rule) rewrite(ctx *rules.Context, file *source.File, fileDir string, src rules.ImportSource) (diag.Fix, bool) {
	if r.opts.BaseURL == "" {
		return diag.Fix{}, false
	}
	root := ctx.RootDir
	if root == "" {
		root = "."
	}
	baseDir := filepath.Join(absolute(root), r.opts.BaseURL)
	target := filepath.Join(fileDir, filepath.FromSlash(src.Value))

	rel, err := filepath.Rel(baseDir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return diag.Fix{}, false
	}
	quoted, err := quote(filepath.ToSlash(rel))
	if err != nil {
		return diag.Fix{}, false
	}
	old := string(file.Content[src.Span.Start:src.Span.End])
	return fix.ReplaceSpan(
		fmt.Sprintf("Import %s from the base url", quoted),
		src.Span,
		quoted,
		old,
		fix.WithKind(diag.FixKindRefactorRewrite),
		fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		fix.Preferred(),
	), true
}

func absolute(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// quote renders s as a JSON string literal, which is also a valid
// JavaScript string literal.
func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
