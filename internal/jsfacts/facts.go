package jsfacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"emptylines/internal/rules"
	"emptylines/internal/source"
	"emptylines/internal/trace"
)

// ErrParse is returned when the parser yields no tree at all.
var ErrParse = errors.New("parse failed")

// Facts is the tree-sitter backed implementation of rules.Facts.
// It holds plain data only; the syntax tree is released after Parse.
type Facts struct {
	Language  Language
	strings   []rules.LineRange
	stmts     []rules.Statement
	sources   []rules.ImportSource
	hasErrors bool
	errorSpan source.Span
}

var _ rules.Facts = (*Facts)(nil)

func (f *Facts) MultilineStrings() []rules.LineRange { return f.strings }

func (f *Facts) TopLevel() []rules.Statement { return f.stmts }

func (f *Facts) ImportSources() []rules.ImportSource { return f.sources }

// HasErrors reports whether the tree contained ERROR or MISSING nodes.
// Facts are still usable: tree-sitter recovers and keeps the rest.
func (f *Facts) HasErrors() bool { return f.hasErrors }

// ErrorSpan is the first ERROR or MISSING node; zero when HasErrors is false.
func (f *Facts) ErrorSpan() source.Span { return f.errorSpan }

// Parse extracts facts from file using the grammar chosen by its path.
func Parse(ctx context.Context, file *source.File) (*Facts, error) {
	return ParseAs(ctx, LanguageFor(file.Path), file)
}

// ParseAs is Parse with an explicit grammar.
func ParseAs(ctx context.Context, lang Language, file *source.File) (*Facts, error) {
	_, span := trace.Start(ctx, trace.ScopeRule, "parse:"+lang.String())
	defer span.End("")

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", file.Path, ErrParse, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%s: %w", file.Path, ErrParse)
	}
	defer tree.Close()

	root := tree.RootNode()
	c := collector{file: file, facts: &Facts{Language: lang, hasErrors: root.HasError()}}
	c.topLevel(root)
	c.walk(root)
	return c.facts, nil
}

type collector struct {
	file      *source.File
	facts     *Facts
	errorSeen bool
}

func (c *collector) text(n *sitter.Node) string {
	return string(c.file.Content[n.StartByte():n.EndByte()])
}

func startLine(n *sitter.Node) uint32 { return n.StartPoint().Row + 1 }

func endLine(n *sitter.Node) uint32 { return n.EndPoint().Row + 1 }

// topLevel classifies the program's statements. Comments and the hash-bang
// line are trivia, not statements.
func (c *collector) topLevel(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		kind := rules.StmtOther
		switch child.Type() {
		case "comment", "hash_bang_line":
			continue
		case "import_statement", "import_alias":
			// import_alias: TypeScript `import B = a.B;`
			kind = rules.StmtImport
		case "export_statement":
			if isExportImport(c.text(child)) {
				kind = rules.StmtExportImport
			}
		}
		c.facts.stmts = append(c.facts.stmts, rules.Statement{
			Kind:  kind,
			Lines: rules.LineRange{Start: startLine(child), End: endLine(child)},
		})
	}
}

// isExportImport matches `export import X = ...`.
func isExportImport(text string) bool {
	rest := strings.TrimLeft(strings.TrimPrefix(text, "export"), " \t\n")
	if !strings.HasPrefix(rest, "import") {
		return false
	}
	rest = rest[len("import"):]
	return rest != "" && !isIdentByte(rest[0])
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}

// walk visits every node once, collecting string segments, module
// specifiers and the first syntax error.
func (c *collector) walk(n *sitter.Node) {
	if c.facts.hasErrors && !c.errorSeen && (n.Type() == "ERROR" || n.IsMissing()) {
		c.errorSeen = true
		c.facts.errorSpan = source.Span{File: c.file.ID, Start: n.StartByte(), End: max(n.EndByte(), n.StartByte()+1)}
		if c.facts.errorSpan.End > c.file.Len() {
			c.facts.errorSpan.End = c.file.Len()
		}
	}
	switch n.Type() {
	case "template_string":
		c.templateQuasis(n)
	case "string":
		if endLine(n) > startLine(n) {
			c.facts.strings = append(c.facts.strings, rules.LineRange{Start: startLine(n), End: endLine(n)})
		}
	case "import_statement", "export_statement":
		if src := n.ChildByFieldName("source"); src != nil {
			c.addSource(src)
		}
	case "import_require_clause":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == "string" {
				c.addSource(child)
				break
			}
		}
	case "call_expression":
		c.callSource(n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.walk(n.Child(i))
	}
}

// templateQuasis records the literal segments of a template: from the
// opening backtick to the first substitution, between substitutions, and
// from the last substitution to the closing backtick.
func (c *collector) templateQuasis(n *sitter.Node) {
	if endLine(n) == startLine(n) {
		return
	}
	from := n.StartPoint().Row
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}
		c.addQuasi(from, child.StartPoint().Row)
		from = child.EndPoint().Row
	}
	c.addQuasi(from, n.EndPoint().Row)
}

func (c *collector) addQuasi(fromRow, toRow uint32) {
	if toRow > fromRow {
		c.facts.strings = append(c.facts.strings, rules.LineRange{Start: fromRow + 1, End: toRow + 1})
	}
}

// callSource handles require('x') and dynamic import('x').
func (c *collector) callSource(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	switch {
	case fn.Type() == "import":
	case fn.Type() == "identifier" && c.text(fn) == "require":
	default:
		return
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	if first := args.NamedChild(0); first.Type() == "string" {
		c.addSource(first)
	}
}

func (c *collector) addSource(n *sitter.Node) {
	if n.Type() != "string" {
		return
	}
	raw := c.text(n)
	if len(raw) < 2 {
		return
	}
	c.facts.sources = append(c.facts.sources, rules.ImportSource{
		Value: raw[1 : len(raw)-1],
		Span:  source.Span{File: c.file.ID, Start: n.StartByte(), End: n.EndByte()},
	})
}
