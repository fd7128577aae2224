package relimports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emptylines/internal/diag"
	"emptylines/internal/fix"
	"emptylines/internal/rules"
	"emptylines/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// sourcesOf finds every quoted specifier in text; good enough for fixtures
// with one import per line.
func sourcesOf(file *source.File) []rules.ImportSource {
	var out []rules.ImportSource
	text := string(file.Content)
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if i := strings.IndexAny(line, `'"`); i >= 0 {
			quote := line[i]
			if j := strings.IndexByte(line[i+1:], quote); j >= 0 {
				start := uint32(offset + i)
				end := start + uint32(j) + 2
				out = append(out, rules.ImportSource{
					Value: line[i+1 : i+1+j],
					Span:  source.Span{File: file.ID, Start: start, End: end},
				})
			}
		}
		offset += len(line)
	}
	return out
}

type project struct {
	root string
	fs   *source.FileSet
}

func newProject(t *testing.T) *project {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/lib/util.js"), "export const u = 1;\n")
	writeFile(t, filepath.Join(root, "src/lib/widgets/index.ts"), "export {};\n")
	writeFile(t, filepath.Join(root, "other/x.js"), "export {};\n")
	return &project{root: root, fs: source.NewFileSet()}
}

func (p *project) check(t *testing.T, r rules.Rule, rel, content string) (*source.File, *diag.Bag) {
	t.Helper()
	path := filepath.Join(p.root, rel)
	writeFile(t, path, content)
	id, err := p.fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := p.fs.Get(id)
	bag := diag.NewBag(0)
	r.Check(&rules.Context{
		Ctx:      context.Background(),
		File:     file,
		Facts:    rules.StaticFacts{Sources: sourcesOf(file)},
		Reporter: diag.BagReporter{Bag: bag},
		Severity: diag.SevWarning,
		RootDir:  p.root,
	})
	return file, bag
}

func TestReportsResolvedParentImports(t *testing.T) {
	p := newProject(t)
	r := NewWithResolver(Options{}, FSResolver{})
	content := "import u from '../lib/util';\n" +
		"import w from '../lib/widgets';\n" +
		"import m from '../lib/missing';\n" +
		"import s from './sibling';\n" +
		"import pkg from 'lodash';\n"
	file, bag := p.check(t, r, "src/app/main.js", content)

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	for i, want := range []string{"'../lib/util'", "'../lib/widgets'"} {
		d := bag.Items()[i]
		if d.Code != diag.ImportRelativeParent || d.Message != Message {
			t.Fatalf("unexpected diagnostic %s %q", d.Code.ID(), d.Message)
		}
		if got := string(file.Content[d.Primary.Start:d.Primary.End]); got != want {
			t.Fatalf("span covers %q, want %q", got, want)
		}
		if d.Fixable() {
			t.Fatalf("no fix expected without base-url")
		}
	}
}

func TestRewritesAgainstBaseURL(t *testing.T) {
	p := newProject(t)
	r := NewWithResolver(Options{BaseURL: "src"}, FSResolver{})
	file, bag := p.check(t, r, "src/app/main.js", "import u from '../lib/util';\n")

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Fixes) != 1 {
		t.Fatalf("expected a fix, got %+v", d.Fixes)
	}
	out, err := fix.ApplyToContent(file.Content, d.Fixes[0].Edits)
	if err != nil {
		t.Fatalf("ApplyToContent: %v", err)
	}
	if string(out) != "import u from \"lib/util\";\n" {
		t.Fatalf("fixed = %q", out)
	}
}

func TestNoRewriteOutsideBaseURL(t *testing.T) {
	p := newProject(t)
	r := NewWithResolver(Options{BaseURL: "src"}, FSResolver{})
	_, bag := p.check(t, r, "src/app/main.js", "import x from '../../other/x';\n")
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Fixable() {
		t.Fatalf("targets outside the base url must not be rewritten")
	}
}

func TestVirtualFilesAreSkipped(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<stdin>", []byte("import u from '../lib/util';\n")))
	bag := diag.NewBag(0)
	resolveAll := resolverFunc(func(string, string) (string, bool) { return "/x.js", true })
	NewWithResolver(Options{}, resolveAll).Check(&rules.Context{
		File:     file,
		Facts:    rules.StaticFacts{Sources: sourcesOf(file)},
		Reporter: diag.BagReporter{Bag: bag},
	})
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics for virtual files, got %d", bag.Len())
	}
}

type resolverFunc func(fromDir, specifier string) (string, bool)

func (f resolverFunc) Resolve(fromDir, specifier string) (string, bool) { return f(fromDir, specifier) }

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(map[string]any{"base-url": "src", "severity": "warn"})
	if err != nil || opts.BaseURL != "src" {
		t.Fatalf("ParseOptions = %+v, %v", opts, err)
	}
	if opts, err = ParseOptions(map[string]any{"baseUrl": "lib"}); err != nil || opts.BaseURL != "lib" {
		t.Fatalf("ParseOptions(baseUrl) = %+v, %v", opts, err)
	}

	bad := []map[string]any{
		{"base-url": 1},
		{"base": "src"},
		{"base-url": string(filepath.Separator) + "abs"},
	}
	for _, options := range bad {
		if _, err := ParseOptions(options); !errors.Is(err, rules.ErrInvalidOptions) {
			t.Errorf("ParseOptions(%v) error = %v, want ErrInvalidOptions", options, err)
		}
	}
}

func TestQuote(t *testing.T) {
	got, err := quote(`a/<b>"c`)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got != `"a/<b>\"c"` {
		t.Fatalf("quote = %s", got)
	}
}
