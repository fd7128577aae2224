package emptylines

import (
	"errors"
	"testing"

	"emptylines/internal/rules"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]any
		want    Policy
	}{
		{
			name: "defaults",
			want: DefaultPolicy(),
		},
		{
			name:    "integers",
			options: map[string]any{"bof": int64(1), "eof": 0, "eoi": float64(3), "default": uint8(2)},
			want:    Policy{BOF: Exactly(1), EOF: Exactly(0), EOI: Exactly(3), Default: Exactly(2)},
		},
		{
			name:    "object with both bounds",
			options: map[string]any{"default": map[string]any{"min": 1, "max": 2}},
			want:    Policy{BOF: Exactly(0), EOF: Exactly(1), EOI: Exactly(2), Default: Bounds{Min: 1, Max: 2}},
		},
		{
			name:    "missing max is unbounded",
			options: map[string]any{"eoi": map[string]any{"min": int64(1)}},
			want:    Policy{BOF: Exactly(0), EOF: Exactly(1), EOI: Bounds{Min: 1, Max: Unbounded}, Default: Bounds{Max: 1}},
		},
		{
			name:    "missing min is zero",
			options: map[string]any{"eof": map[string]any{"max": 2}},
			want:    Policy{BOF: Exactly(0), EOF: Bounds{Min: 0, Max: 2}, EOI: Exactly(2), Default: Bounds{Max: 1}},
		},
		{
			name:    "severity is ignored",
			options: map[string]any{"severity": "error"},
			want:    DefaultPolicy(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePolicy(tt.options)
			if err != nil {
				t.Fatalf("ParsePolicy: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePolicyRejects(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]any
		key     string
	}{
		{"unknown zone", map[string]any{"top": 1}, "top"},
		{"negative", map[string]any{"bof": -1}, "bof"},
		{"fractional", map[string]any{"eof": 1.5}, "eof"},
		{"string", map[string]any{"eoi": "2"}, "eoi"},
		{"unknown field", map[string]any{"default": map[string]any{"most": 1}}, "default.most"},
		{"non numeric field", map[string]any{"default": map[string]any{"min": "1"}}, "default.min"},
		{"min above max", map[string]any{"default": map[string]any{"min": 3, "max": 1}}, "default"},
		{"too large", map[string]any{"default": uint64(1) << 40}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicy(tt.options)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, rules.ErrInvalidOptions) {
				t.Fatalf("error %v does not wrap ErrInvalidOptions", err)
			}
			var optErr *rules.OptionError
			if !errors.As(err, &optErr) {
				t.Fatalf("error %T is not an OptionError", err)
			}
			if optErr.Rule != Name || optErr.Key != tt.key {
				t.Fatalf("got rule %q key %q, want %q %q", optErr.Rule, optErr.Key, Name, tt.key)
			}
		})
	}
}

func TestBoundsString(t *testing.T) {
	tests := []struct {
		b    Bounds
		want string
	}{
		{Exactly(2), "2"},
		{Bounds{Min: 1, Max: 3}, "{min: 1, max: 3}"},
		{Bounds{Min: 1, Max: Unbounded}, "{min: 1}"},
	}
	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestDefaultPolicyAllowsAdjacentLines(t *testing.T) {
	if vs := Lint(lines("a\nb\nc\n\n"), nil, DefaultPolicy()); len(vs) != 0 {
		t.Fatalf("adjacent content lines must pass the default zone, got %+v", vs)
	}
}
