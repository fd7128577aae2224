package diag

import "emptylines/internal/source"

// один и тот же код на том же span считается одной находкой,
// даже если сообщение или severity различаются
type findingKey struct {
	code    Code
	primary source.Span
}

// DedupReporter forwards the first diagnostic per code and primary span and
// counts the rest. Different codes on the same span are all forwarded.
type DedupReporter struct {
	next    Reporter
	seen    map[findingKey]struct{}
	dropped int
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[findingKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	key := findingKey{code: code, primary: primary}
	if _, dup := r.seen[key]; dup {
		r.dropped++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Dropped returns how many duplicates were suppressed.
func (r *DedupReporter) Dropped() int {
	if r == nil {
		return 0
	}
	return r.dropped
}
