package rules

import "emptylines/internal/source"

// LineRange is an inclusive range of 1-based line numbers.
type LineRange struct {
	Start uint32
	End   uint32
}

// StmtKind classifies a top-level statement for import-block detection.
type StmtKind uint8

const (
	StmtOther StmtKind = iota
	StmtImport
	// StmtExportImport is an exported import-equals (`export import X = Y`).
	// It re-exports a binding and does not belong to the import block.
	StmtExportImport
)

func (k StmtKind) String() string {
	switch k {
	case StmtImport:
		return "import"
	case StmtExportImport:
		return "export-import"
	default:
		return "other"
	}
}

// Statement is one entry of the module-level statement list.
type Statement struct {
	Kind  StmtKind
	Lines LineRange
}

// ImportSource is a module specifier string literal, e.g. '../util' in
// `import x from '../util'`. Span covers the literal including its quotes.
type ImportSource struct {
	Value string
	Span  source.Span
}

// Facts is the read-only view of a parsed file that rules consume. It is
// produced by the host parser once per file; rules never parse on their own.
type Facts interface {
	// MultilineStrings returns, for every string-like construct spanning
	// more than one line, the line ranges of its literal text segments.
	// For template literals each range is one quasi: the text between the
	// opening backtick, `${...}` substitutions and the closing backtick.
	MultilineStrings() []LineRange
	// TopLevel returns module-scope statements in document order.
	TopLevel() []Statement
	// ImportSources returns module specifiers of import/export/require forms.
	ImportSources() []ImportSource
}

// StaticFacts is a plain-data Facts implementation for tests and for hosts
// that already have the facts at hand.
type StaticFacts struct {
	Strings    []LineRange
	Statements []Statement
	Sources    []ImportSource
}

func (f StaticFacts) MultilineStrings() []LineRange { return f.Strings }

func (f StaticFacts) TopLevel() []Statement { return f.Statements }

func (f StaticFacts) ImportSources() []ImportSource { return f.Sources }
