package emptylines

import "emptylines/internal/rules"

// DetectImportBoundary returns the line on which the first run of import
// statements ends, or 0 when there is no such run.
//
// Statements before the first import (a "use strict" prologue, a license
// banner expression) are skipped. Only the first contiguous run counts, and
// the run must be followed by a non-import statement: a file made only of
// imports has no boundary. An exported import-equals is never part of the run.
func DetectImportBoundary(stmts []rules.Statement) uint32 {
	first := 0
	for first < len(stmts) && stmts[first].Kind != rules.StmtImport {
		first++
	}
	for i := first; i < len(stmts); i++ {
		if stmts[i].Kind != rules.StmtImport || i+1 >= len(stmts) {
			return 0
		}
		if stmts[i+1].Kind != rules.StmtImport {
			return stmts[i].Lines.End
		}
	}
	return 0
}
