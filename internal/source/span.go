package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Overlaps reports whether two spans of the same file intersect. An empty
// span is an insertion point and overlaps a span when Start <= pos < End.
// Two insertion points never overlap.
func (s Span) Overlaps(other Span) bool {
	switch {
	case s.File != other.File:
		return false
	case s.Empty() && other.Empty():
		return false
	case s.Empty():
		return other.Start <= s.Start && s.Start < other.End
	case other.Empty():
		return s.Start <= other.Start && other.Start < s.End
	default:
		return s.Start < other.End && other.Start < s.End
	}
}
