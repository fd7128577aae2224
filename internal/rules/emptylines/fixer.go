package emptylines

import (
	"fmt"

	"emptylines/internal/diag"
	"emptylines/internal/fix"
	"emptylines/internal/source"
)

// Deletion removes whole lines [FromLine, ToLine). ToEOF means the run
// reaches past the last analysed line, so the deletion ends at the end of
// the text.
type Deletion struct {
	FromLine uint32
	ToLine   uint32
	ToEOF    bool
}

// planDeletion keeps exactly keep blank lines of the run between prev and next.
func planDeletion(prev, next, keep, lastLine uint32) *Deletion {
	to := next - keep
	return &Deletion{
		FromLine: prev + 1,
		ToLine:   to,
		ToEOF:    to > lastLine,
	}
}

// buildFix turns a deletion into a fix; ok is false when the range can not be
// computed, in which case the violation is reported without a fix.
func buildFix(file *source.File, v Violation) (diag.Fix, bool) {
	if v.Deletion == nil {
		return diag.Fix{}, false
	}
	n := v.Actual - v.Limit
	title := fmt.Sprintf("Remove %d blank %s", n, plural(n))
	f, err := fix.DeleteLines(title, file, v.Deletion.FromLine, v.Deletion.ToLine, fix.Preferred())
	if err != nil {
		return diag.Fix{}, false
	}
	return f, true
}
