package solver

import (
	"testing"

	"github.com/irifrance/gini/z"
)

func TestFakeScriptedOutcomes(t *testing.T) {
	f := NewFake(3)
	f.Script = []Outcome{Sat, Sat, Indet}
	f.Default = Unsat
	f.Models[0] = map[z.Var]bool{1: true, 2: false}

	if got := f.Solve(); got != Sat {
		t.Fatalf("call 0: got %v, want Sat", got)
	}
	if !f.Value(z.Dimacs2Lit(1)) {
		t.Fatal("var 1 should be true")
	}
	if f.Value(z.Dimacs2Lit(2)) {
		t.Fatal("var 2 should be false")
	}

	if got := f.Solve(); got != Sat {
		t.Fatalf("call 1: got %v, want Sat", got)
	}
	if got := f.Solve(); got != Indet {
		t.Fatalf("call 2: got %v, want Indet", got)
	}
	if got := f.Solve(); got != Unsat {
		t.Fatalf("call 3: got %v, want Unsat (default)", got)
	}
}

func TestFakeNewVarMonotonic(t *testing.T) {
	f := NewFake(5)
	a := f.NewVar()
	b := f.NewVar()
	if a != 6 || b != 7 {
		t.Fatalf("got %v, %v; want 6, 7", a, b)
	}
	if f.NVars() != 7 {
		t.Fatalf("NVars() = %d, want 7", f.NVars())
	}
}
