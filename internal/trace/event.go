package trace

import "time"

// Kind tells begin, end and instant events apart.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; lower is coarser. Level decides
// which scopes are recorded.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one command: check or fix
	ScopePass                    // discover, lint, one fix pass, report
	ScopeFile                    // one source file
	ScopeRule                    // one rule or the parser on one file
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeRule:
		return "rule"
	}
	return "unknown"
}

// Event is one record. Tracers stamp Seq when they store or write it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points
	ParentID uint64 // enclosing span, 0 at the root
	GID      uint64
	Name     string // "check", "file:src/a.js", "rule:empty-lines"
	Detail   string
	Extra    map[string]string
}
