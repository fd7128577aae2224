package jsfacts

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"emptylines/internal/rules"
	"emptylines/internal/source"
)

func parse(t *testing.T, name, text string) (*source.File, *Facts) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(text)))
	facts, err := Parse(context.Background(), file)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return file, facts
}

func TestTopLevelStatements(t *testing.T) {
	text := "#!/usr/bin/env node\n" +
		"// header\n" +
		"import a from 'a';\n" +
		"import {\n  b,\n} from 'b';\n" +
		"\n" +
		"const x = 1;\n"
	_, facts := parse(t, "main.js", text)

	want := []rules.Statement{
		{Kind: rules.StmtImport, Lines: rules.LineRange{Start: 3, End: 3}},
		{Kind: rules.StmtImport, Lines: rules.LineRange{Start: 4, End: 6}},
		{Kind: rules.StmtOther, Lines: rules.LineRange{Start: 8, End: 8}},
	}
	if diff := cmp.Diff(want, facts.TopLevel()); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
	if facts.HasErrors() {
		t.Fatalf("unexpected parse errors")
	}
}

func TestExportImportIsNotAnImport(t *testing.T) {
	text := "import a = require('a');\nexport import B = a.B;\n\nlet c = 1;\n"
	_, facts := parse(t, "mod.ts", text)
	stmts := facts.TopLevel()
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %+v", stmts)
	}
	if stmts[0].Kind != rules.StmtImport || stmts[1].Kind != rules.StmtExportImport || stmts[2].Kind != rules.StmtOther {
		t.Fatalf("unexpected kinds %v %v %v", stmts[0].Kind, stmts[1].Kind, stmts[2].Kind)
	}
}

func TestImportAliasIsAnImport(t *testing.T) {
	text := "import a from 'a';\nimport B = a.B;\nexport import C = a.C;\n\n\nlet c = 1;\n"
	_, facts := parse(t, "alias.ts", text)

	want := []rules.Statement{
		{Kind: rules.StmtImport, Lines: rules.LineRange{Start: 1, End: 1}},
		{Kind: rules.StmtImport, Lines: rules.LineRange{Start: 2, End: 2}},
		{Kind: rules.StmtExportImport, Lines: rules.LineRange{Start: 3, End: 3}},
		{Kind: rules.StmtOther, Lines: rules.LineRange{Start: 6, End: 6}},
	}
	if diff := cmp.Diff(want, facts.TopLevel()); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateQuasis(t *testing.T) {
	text := "const s = `a\n\n${x}\n\nb`;\n"
	_, facts := parse(t, "tpl.js", text)
	want := []rules.LineRange{{Start: 1, End: 3}, {Start: 3, End: 5}}
	if diff := cmp.Diff(want, facts.MultilineStrings()); diff != "" {
		t.Fatalf("quasis mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleLineTemplateIsIgnored(t *testing.T) {
	_, facts := parse(t, "tpl.js", "const s = `a ${b} c`;\n")
	if got := facts.MultilineStrings(); len(got) != 0 {
		t.Fatalf("expected no ranges, got %+v", got)
	}
}

func TestImportSources(t *testing.T) {
	text := "import a from '../a';\n" +
		"export { b } from \"./b\";\n" +
		"const c = require('../../c');\n" +
		"import('../d').then(() => {});\n" +
		"foo('../not-a-module');\n"
	file, facts := parse(t, "deps.js", text)

	var got []string
	for _, src := range facts.ImportSources() {
		got = append(got, src.Value)
		quoted := string(file.Content[src.Span.Start:src.Span.End])
		if quoted[1:len(quoted)-1] != src.Value {
			t.Errorf("span %v covers %q, value %q", src.Span, quoted, src.Value)
		}
	}
	want := []string{"../a", "./b", "../../c", "../d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestHasErrors(t *testing.T) {
	file, facts := parse(t, "broken.js", "let a = 1;\nconst = ;\n")
	if !facts.HasErrors() {
		t.Fatalf("expected parse errors")
	}
	span := facts.ErrorSpan()
	if span.Start < 11 || span.End > file.Len() || span.Start >= span.End {
		t.Fatalf("error span %v should point into the second line", span)
	}
}

func TestLanguageFor(t *testing.T) {
	tests := map[string]Language{
		"a.js":  JavaScript,
		"a.JSX": JavaScript,
		"a.mjs": JavaScript,
		"a.ts":  TypeScript,
		"a.cts": TypeScript,
		"a.tsx": TSX,
		"a.txt": JavaScript,
	}
	for path, want := range tests {
		if got := LanguageFor(path); got != want {
			t.Errorf("LanguageFor(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestIsExportImport(t *testing.T) {
	tests := map[string]bool{
		"export import A = B.C;":   true,
		"export  import\tA = B;":   true,
		"export const importX = 1": false,
		"export { importA };":      false,
		"export default imports;":  false,
	}
	for text, want := range tests {
		if got := isExportImport(text); got != want {
			t.Errorf("isExportImport(%q) = %v, want %v", text, got, want)
		}
	}
}
