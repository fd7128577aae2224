package rules

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"emptylines/internal/diag"
	"emptylines/internal/source"
	"emptylines/internal/trace"
)

// ErrInvalidOptions is wrapped by every option validation failure.
var ErrInvalidOptions = errors.New("invalid rule options")

// OptionError describes one rejected option value.
type OptionError struct {
	Rule   string
	Key    string
	Reason string
}

func (e *OptionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Rule, e.Key, e.Reason)
}

func (e *OptionError) Unwrap() error { return ErrInvalidOptions }

// Context carries everything a rule needs to check one file.
// A Context is never shared between files.
type Context struct {
	Ctx      context.Context
	File     *source.File
	Facts    Facts
	Reporter diag.Reporter
	Severity diag.Severity
	// RootDir is the project root used to resolve configured base paths.
	RootDir string
}

// Rule checks a single file and reports findings through ctx.Reporter.
type Rule interface {
	Name() string
	Check(ctx *Context)
}

// Factory builds a configured rule. Options come straight from the decoded
// configuration file; the factory validates them and fails closed.
type Factory func(options map[string]any) (Rule, error)

// Registry maps rule names to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Registering the same name twice panics.
func (r *Registry) Register(name string, factory Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("rules: duplicate registration of %q", name))
	}
	r.factories[name] = factory
}

// Names returns registered rule names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates a rule by name.
func (r *Registry) Build(name string, options map[string]any) (Rule, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &OptionError{Rule: name, Reason: "unknown rule"}
	}
	return factory(options)
}

// Enabled is a configured rule paired with its severity.
type Enabled struct {
	Rule     Rule
	Severity diag.Severity
}

// Run checks one file with every enabled rule, in the given order.
func Run(ctx *Context, enabled []Enabled) {
	traced := trace.Enabled(ctx.Ctx, trace.ScopeRule)
	for _, e := range enabled {
		if ctx.Ctx != nil && ctx.Ctx.Err() != nil {
			return
		}
		ruleCtx := *ctx
		ruleCtx.Severity = e.Severity
		if !traced {
			e.Rule.Check(&ruleCtx)
			continue
		}
		_, span := trace.Start(ctx.Ctx, trace.ScopeRule, "rule:"+e.Rule.Name())
		e.Rule.Check(&ruleCtx)
		span.End("")
	}
}
