package diagfmt

import (
	"fmt"
	"strings"

	"emptylines/internal/source"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // as given when short or relative, basename otherwise
	PathModeAbsolute
	PathModeRelative // relative to the file set base directory
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// ParsePathMode accepts the names above and the short forms abs, rel and
// base. An empty string means auto.
func ParsePathMode(s string) (PathMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "":
		return PathModeAuto, nil
	case "abs":
		return PathModeAbsolute, nil
	case "rel":
		return PathModeRelative, nil
	case "base":
		return PathModeBasename, nil
	}
	for mode, known := range pathModeNames {
		if name == known {
			return PathMode(mode), nil //nolint:gosec // index of a four-element array
		}
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return ""
	}
	baseDir := ""
	if mode == PathModeRelative && fs != nil {
		baseDir = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), baseDir)
}

// PrettyOpts configures the human-readable renderer.
type PrettyOpts struct {
	Color       bool
	Context     int8     // lines of context around the primary span
	PathMode    PathMode
	Width       uint8    // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output. Max cuts the output, not the bag.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRunMeta describes the tool invocation recorded in a SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	PathMode       PathMode
}
