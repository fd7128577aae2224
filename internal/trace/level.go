package trace

import (
	"fmt"
	"strings"
)

// Level is how much detail gets recorded. Each level adds one scope.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // driver and passes
	LevelDetail       // + files
	LevelDebug        // + rules and parsing
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, known := range levelNames {
		if name == known {
			return Level(l), nil //nolint:gosec // index of a four-element array
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope are recorded at l.
// ScopeDriver+n is recorded from LevelPhase+n on.
func (l Level) ShouldEmit(scope Scope) bool {
	return l != LevelOff && scope != 0 && uint8(scope) <= uint8(l)+1
}
