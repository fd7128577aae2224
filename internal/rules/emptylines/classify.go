package emptylines

import (
	"strings"
	"unicode"
)

// AnalysisLines drops the single empty element a final newline produces, so
// that the newline terminating the last line is never counted as a blank line.
func AnalysisLines(lines []string) []string {
	if n := len(lines); n > 0 && lines[n-1] == "" {
		return lines[:n-1]
	}
	return lines
}

// isBlank matches lines without any non-whitespace character. The BOM is
// treated as whitespace, matching what editors display.
func isBlank(line string) bool {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	}) == ""
}

// NonEmptyLines returns the ascending 1-based numbers of lines holding
// content, followed by the synthetic terminal len(lines)+1. A line holds
// content when it has non-whitespace text or is opaque.
func NonEmptyLines(lines []string, opaque OpaqueSet) []uint32 {
	out := make([]uint32, 0, len(lines)/2+1)
	for i, line := range lines {
		num := uint32(i + 1) //nolint:gosec // line count fits: files are capped at 4GiB
		if !isBlank(line) || opaque.Has(num) {
			out = append(out, num)
		}
	}
	return append(out, uint32(len(lines)+1)) //nolint:gosec // see above
}
