package emptylines

import "emptylines/internal/rules"

// OpaqueSet holds lines that sit inside multi-line string constructs. Such
// lines count as content even when they contain only whitespace.
type OpaqueSet map[uint32]struct{}

// Has reports whether line is opaque.
func (s OpaqueSet) Has(line uint32) bool {
	_, ok := s[line]
	return ok
}

// CollectOpaque builds the set from the string segments a parser reported.
// For a segment spanning lines [Start, End] every line from Start up to but
// excluding End is opaque: the closing line carries the delimiter (or more
// code) and is classified on its own.
func CollectOpaque(ranges []rules.LineRange) OpaqueSet {
	set := make(OpaqueSet)
	for _, r := range ranges {
		for line := r.Start; line < r.End; line++ {
			set[line] = struct{}{}
		}
	}
	return set
}
