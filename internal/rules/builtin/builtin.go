// Package builtin registers the rules shipped with the linter.
package builtin

import (
	"emptylines/internal/rules"
	"emptylines/internal/rules/emptylines"
	"emptylines/internal/rules/relimports"
)

// Registry returns a fresh registry holding every built-in rule.
func Registry() *rules.Registry {
	reg := rules.NewRegistry()
	reg.Register(emptylines.Name, emptylines.New)
	reg.Register(relimports.Name, relimports.New)
	return reg
}
