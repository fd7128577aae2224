package emptylines

import (
	"testing"

	"emptylines/internal/rules"
)

func TestResolveZone(t *testing.T) {
	const last = 10
	tests := []struct {
		name           string
		prev, next     uint32
		importBoundary uint32
		want           Zone
	}{
		{"anchor", 0, 3, 0, ZoneBOF},
		{"whole file blank", 0, last + 1, 0, ZoneBOF},
		{"terminal", 7, last + 1, 0, ZoneEOF},
		{"terminal wins over eoi", 7, last + 1, 7, ZoneEOF},
		{"after imports", 4, 6, 4, ZoneEOI},
		{"inside imports", 2, 3, 4, ZoneDefault},
		{"no imports", 4, 6, 0, ZoneDefault},
		{"ordinary", 5, 8, 2, ZoneDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveZone(tt.prev, tt.next, tt.importBoundary, last); got != tt.want {
				t.Fatalf("ResolveZone(%d, %d, %d) = %s, want %s", tt.prev, tt.next, tt.importBoundary, got, tt.want)
			}
		})
	}
}

func stmt(kind rules.StmtKind, start, end uint32) rules.Statement {
	return rules.Statement{Kind: kind, Lines: rules.LineRange{Start: start, End: end}}
}

func TestDetectImportBoundary(t *testing.T) {
	tests := []struct {
		name  string
		stmts []rules.Statement
		want  uint32
	}{
		{"empty", nil, 0},
		{"single import then code", []rules.Statement{
			stmt(rules.StmtImport, 1, 1), stmt(rules.StmtOther, 3, 3),
		}, 1},
		{"multi-line import", []rules.Statement{
			stmt(rules.StmtImport, 1, 1), stmt(rules.StmtImport, 2, 6), stmt(rules.StmtOther, 8, 9),
		}, 6},
		{"only imports", []rules.Statement{
			stmt(rules.StmtImport, 1, 1), stmt(rules.StmtImport, 2, 2),
		}, 0},
		{"directive prologue first", []rules.Statement{
			stmt(rules.StmtOther, 1, 1), stmt(rules.StmtImport, 2, 2), stmt(rules.StmtOther, 5, 5),
		}, 2},
		{"code only", []rules.Statement{
			stmt(rules.StmtOther, 1, 1), stmt(rules.StmtOther, 3, 3),
		}, 0},
		{"later imports are ignored", []rules.Statement{
			stmt(rules.StmtImport, 1, 1), stmt(rules.StmtOther, 3, 3), stmt(rules.StmtImport, 5, 5), stmt(rules.StmtOther, 7, 7),
		}, 1},
		{"export import ends the run", []rules.Statement{
			stmt(rules.StmtImport, 1, 1), stmt(rules.StmtExportImport, 2, 2), stmt(rules.StmtOther, 4, 4),
		}, 1},
		{"export import first", []rules.Statement{
			stmt(rules.StmtExportImport, 1, 1), stmt(rules.StmtOther, 3, 3),
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectImportBoundary(tt.stmts); got != tt.want {
				t.Fatalf("DetectImportBoundary = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCollectOpaque(t *testing.T) {
	set := CollectOpaque([]rules.LineRange{{Start: 2, End: 4}, {Start: 7, End: 7}})
	for _, line := range []uint32{2, 3} {
		if !set.Has(line) {
			t.Errorf("line %d should be opaque", line)
		}
	}
	for _, line := range []uint32{1, 4, 7} {
		if set.Has(line) {
			t.Errorf("line %d should not be opaque", line)
		}
	}
}

func TestNonEmptyLines(t *testing.T) {
	got := NonEmptyLines([]string{"a", "", " \t", "\uFEFF", "b", ""}, OpaqueSet{3: {}})
	want := []uint32{1, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
