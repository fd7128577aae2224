package source

import "testing"

func TestSpanBasics(t *testing.T) {
	s := Span{File: 3, Start: 10, End: 14}
	if s.Empty() || s.Len() != 4 {
		t.Fatalf("Empty/Len wrong for %v", s)
	}
	if got := s.String(); got != "3:10-14" {
		t.Fatalf("String() = %q", got)
	}
	if !(Span{Start: 7, End: 7}).Empty() {
		t.Fatalf("zero-length span must be empty")
	}
}

func TestSpan_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 2}, Span{Start: 2, End: 4}, false},
		{"intersecting", Span{Start: 0, End: 3}, Span{Start: 2, End: 4}, true},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 2, End: 4}, true},
		{"two insertions", Span{Start: 2, End: 2}, Span{Start: 2, End: 2}, false},
		{"insertion inside", Span{Start: 3, End: 3}, Span{Start: 2, End: 4}, true},
		{"insertion at end", Span{Start: 4, End: 4}, Span{Start: 2, End: 4}, false},
		{"different files", Span{File: 1, Start: 0, End: 10}, Span{File: 2, Start: 0, End: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
