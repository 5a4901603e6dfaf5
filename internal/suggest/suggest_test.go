package suggest

import (
	"slices"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "run", 3},
		{"emit", "", 4},
		{"build", "build", 0},
		{"biuld", "build", 2},
		{"chek", "check", 1},
		{"kitten", "sitting", 3},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Distance(tt.b, tt.a); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestSimilar(t *testing.T) {
	commands := []string{"build", "run", "emit", "check", "help", "version"}

	tests := []struct {
		name string
		want []string
	}{
		{"biuld", []string{"build"}},
		{"rum", []string{"run"}},
		{"chekc", []string{"check"}},
		{"edit", []string{"emit"}},
		{"compile", []string{}},
		{"build", []string{}},
	}

	for _, tt := range tests {
		if got := Similar(tt.name, commands, 3); !slices.Equal(got, tt.want) {
			t.Errorf("Similar(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSimilarOrderingAndLimit(t *testing.T) {
	got := Similar("ab", []string{"abcd", "abc", "xb", "ab"}, 2)
	if want := []string{"abc", "xb"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
