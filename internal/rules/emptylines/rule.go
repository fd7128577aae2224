package emptylines

import (
	"emptylines/internal/diag"
	"emptylines/internal/rules"
	"emptylines/internal/source"
)

// Name is the configuration key of the rule.
const Name = "empty-lines"

// Rule enforces Policy on every file it is given.
type Rule struct {
	policy Policy
}

// New validates options and returns the configured rule.
func New(options map[string]any) (rules.Rule, error) {
	policy, err := ParsePolicy(options)
	if err != nil {
		return nil, err
	}
	return &Rule{policy: policy}, nil
}

// NewWithPolicy returns a rule for an already validated policy.
func NewWithPolicy(policy Policy) *Rule {
	return &Rule{policy: policy}
}

func (r *Rule) Name() string { return Name }

// Policy returns a copy of the configured policy.
func (r *Rule) Policy() Policy { return r.policy }

func (r *Rule) Check(ctx *rules.Context) {
	file := ctx.File
	for _, v := range Lint(file.Lines(), ctx.Facts, r.policy) {
		span := violationSpan(file, v)
		b := diag.NewReportBuilder(ctx.Reporter, ctx.Severity, codeFor(v), span, v.Message()).
			WithNote(span, v.Detail())
		if f, ok := buildFix(file, v); ok {
			b.WithFixSuggestion(f)
		}
		b.Emit()
	}
}

// violationSpan maps the reported lines to bytes. Lines past the end of the
// file map to the end of the content.
func violationSpan(file *source.File, v Violation) source.Span {
	offset := func(line uint32) uint32 {
		if off, ok := file.LineStart(line); ok {
			return off
		}
		return file.Len()
	}
	end := offset(v.EndLine)
	start := min(offset(v.StartLine), end)
	return source.Span{File: file.ID, Start: start, End: end}
}

var codes = map[Zone][2]diag.Code{
	ZoneBOF:     {diag.BlankBOFMax, diag.BlankBOFMin},
	ZoneEOF:     {diag.BlankEOFMax, diag.BlankEOFMin},
	ZoneEOI:     {diag.BlankEOIMax, diag.BlankEOIMin},
	ZoneDefault: {diag.BlankDefaultMax, diag.BlankDefaultMin},
}

func codeFor(v Violation) diag.Code {
	return codes[v.Zone][v.Bound]
}
