package source

import (
	"testing"
)

func TestSpan_Contains(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		off      uint32
		expected bool
	}{
		{
			name:     "offset inside span",
			span:     Span{Start: 10, End: 20},
			off:      15,
			expected: true,
		},
		{
			name:     "offset at start is inside",
			span:     Span{Start: 10, End: 20},
			off:      10,
			expected: true,
		},
		{
			name:     "offset at end is outside (half-open)",
			span:     Span{Start: 10, End: 20},
			off:      20,
			expected: false,
		},
		{
			name:     "offset before span",
			span:     Span{Start: 10, End: 20},
			off:      9,
			expected: false,
		},
		{
			name:     "empty span contains nothing",
			span:     Span{Start: 10, End: 10},
			off:      10,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Contains(tt.off); got != tt.expected {
				t.Errorf("Contains(%d) = %v, want %v", tt.off, got, tt.expected)
			}
		})
	}
}

func TestSpan_ContainsSpan(t *testing.T) {
	tests := []struct {
		name     string
		outer    Span
		inner    Span
		expected bool
	}{
		{
			name:     "strictly nested",
			outer:    Span{Start: 0, End: 100},
			inner:    Span{Start: 20, End: 30},
			expected: true,
		},
		{
			name:     "equal spans contain each other",
			outer:    Span{Start: 5, End: 9},
			inner:    Span{Start: 5, End: 9},
			expected: true,
		},
		{
			name:     "overlapping but not nested",
			outer:    Span{Start: 0, End: 10},
			inner:    Span{Start: 5, End: 15},
			expected: false,
		},
		{
			name:     "empty span at boundary",
			outer:    Span{Start: 0, End: 10},
			inner:    Span{Start: 10, End: 10},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outer.ContainsSpan(tt.inner); got != tt.expected {
				t.Errorf("ContainsSpan(%v) = %v, want %v", tt.inner, got, tt.expected)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	a := Span{Start: 10, End: 20}
	b := Span{Start: 5, End: 15}
	got := a.Cover(b)
	want := Span{Start: 5, End: 20}
	if got != want {
		t.Errorf("Cover() = %+v, want %+v", got, want)
	}
}

func TestSpan_LenEmpty(t *testing.T) {
	if (Span{Start: 3, End: 3}).Empty() != true {
		t.Error("expected empty span")
	}
	if got := (Span{Start: 3, End: 8}).Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}
