package projection

import (
	"testing"

	"github.com/irifrance/gini/z"
)

func TestNewIndependentSetSortsAndDedups(t *testing.T) {
	s := NewIndependentSet([]z.Var{3, 1, 2, 1, 3})
	got := s.Vars()
	want := []z.Var{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFullCoversAllVars(t *testing.T) {
	s := Full(4)
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
}

func TestCanonicalizeIsSignedAndOrdered(t *testing.T) {
	s := NewIndependentSet([]z.Var{1, 2, 3})
	values := map[z.Var]bool{1: true, 2: false, 3: true}
	p := Canonicalize(s, func(l z.Lit) bool {
		v := values[l.Var()]
		if !l.IsPos() {
			v = !v
		}
		return v
	})
	if p != "1 -2 3" {
		t.Fatalf("got %q, want %q", p, "1 -2 3")
	}
}
