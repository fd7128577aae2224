package emptylines

import (
	"fmt"

	"emptylines/internal/rules"
)

// Bound says which side of a zone's bounds a run violated.
type Bound uint8

const (
	BoundMax Bound = iota
	BoundMin
)

func (b Bound) String() string {
	if b == BoundMin {
		return "min"
	}
	return "max"
}

// Violation is one blank run outside its zone's bounds.
type Violation struct {
	Zone  Zone
	Bound Bound
	// Prev and Next are the content lines around the run (Prev may be the
	// 0 anchor, Next may be the synthetic terminal).
	Prev, Next uint32
	Actual     uint32
	Limit      uint32
	// StartLine and EndLine delimit the reported location; both at column 0.
	StartLine uint32
	EndLine   uint32
	// Deletion is set for max violations only.
	Deletion *Deletion
}

// Tag is the rule tag used in messages, e.g. "default_max".
func (v Violation) Tag() string {
	return v.Zone.String() + "_" + v.Bound.String()
}

// Message is the human readable text of the finding.
func (v Violation) Message() string {
	return fmt.Sprintf("Wrong number of blank lines. Rule: %s.", v.Tag())
}

// Detail explains the counts behind the finding.
func (v Violation) Detail() string {
	if v.Bound == BoundMin {
		return fmt.Sprintf("found %d blank %s, expected at least %d", v.Actual, plural(v.Actual), v.Limit)
	}
	return fmt.Sprintf("found %d blank %s, expected at most %d", v.Actual, plural(v.Actual), v.Limit)
}

func plural(n uint32) string {
	if n == 1 {
		return "line"
	}
	return "lines"
}

// Analysis is the outcome of the fact-collection pass for one file.
type Analysis struct {
	Opaque         OpaqueSet
	ImportBoundary uint32
}

// Collect runs the fact-collection pass. It must complete before Analyze.
func Collect(facts rules.Facts) Analysis {
	if facts == nil {
		return Analysis{Opaque: OpaqueSet{}}
	}
	return Analysis{
		Opaque:         CollectOpaque(facts.MultilineStrings()),
		ImportBoundary: DetectImportBoundary(facts.TopLevel()),
	}
}

// Analyze checks every blank run of lines against policy and returns the
// violations in ascending line order. lines is the physical line array; the
// empty element after a final newline is dropped here.
func Analyze(lines []string, a Analysis, policy Policy) []Violation {
	lines = AnalysisLines(lines)
	lastLine := uint32(len(lines)) //nolint:gosec // bounded by file size

	var out []Violation
	prev := uint32(0)
	for _, next := range NonEmptyLines(lines, a.Opaque) {
		zone := ResolveZone(prev, next, a.ImportBoundary, lastLine)
		bounds := policy.For(zone)
		actual := next - prev - 1

		if actual > bounds.Max {
			out = append(out, Violation{
				Zone:      zone,
				Bound:     BoundMax,
				Prev:      prev,
				Next:      next,
				Actual:    actual,
				Limit:     bounds.Max,
				StartLine: prev + bounds.Max + 1,
				EndLine:   next,
				Deletion:  planDeletion(prev, next, bounds.Max, lastLine),
			})
		}
		if actual < bounds.Min {
			out = append(out, Violation{
				Zone:      zone,
				Bound:     BoundMin,
				Prev:      prev,
				Next:      next,
				Actual:    actual,
				Limit:     bounds.Min,
				StartLine: prev + bounds.Min + 1,
				EndLine:   next,
			})
		}
		prev = next
	}
	return out
}

// Lint runs both passes over one file.
func Lint(lines []string, facts rules.Facts, policy Policy) []Violation {
	return Analyze(lines, Collect(facts), policy)
}
