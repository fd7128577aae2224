package builtin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryNames(t *testing.T) {
	want := []string{"empty-lines", "no-relative-parent-imports"}
	if diff := cmp.Diff(want, Registry().Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryBuildsDefaults(t *testing.T) {
	reg := Registry()
	for _, name := range reg.Names() {
		rule, err := reg.Build(name, nil)
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		if rule.Name() != name {
			t.Fatalf("rule %q reports name %q", name, rule.Name())
		}
	}
	if _, err := reg.Build("no-such-rule", nil); err == nil {
		t.Fatalf("expected an error for an unknown rule")
	}
}
