package hashbank

import (
	"testing"

	"github.com/irifrance/gini/z"

	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
)

func TestAddHashGrowsBankAndAssumptions(t *testing.T) {
	f := solver.NewFake(4)
	s := projection.NewIndependentSet([]z.Var{1, 2, 3, 4})
	b := &Builder{Solver: f, S: s, Rand: randsrc.NewSeeded(1)}
	bank := NewBank(b)

	bank.Add(3)
	if bank.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", bank.Count())
	}
	if bank.Assumptions.Len() != 3 {
		t.Fatalf("assumption count = %d, want 3", bank.Assumptions.Len())
	}
	if len(f.XorClauses) != 3 {
		t.Fatalf("xor clause count = %d, want 3", len(f.XorClauses))
	}

	for i, h := range bank.Hashes {
		want := f.XorClauses[i].Vars[0]
		if h.ActVar != want {
			t.Fatalf("hash %d activation var mismatch: %v vs %v", i, h.ActVar, want)
		}
	}
}

func TestResetClearsBankNotSolver(t *testing.T) {
	f := solver.NewFake(2)
	s := projection.NewIndependentSet([]z.Var{1, 2})
	b := &Builder{Solver: f, S: s, Rand: randsrc.NewSeeded(2)}
	bank := NewBank(b)

	bank.Add(2)
	clausesBefore := len(f.XorClauses)
	bank.Reset()

	if bank.Count() != 0 || bank.Assumptions.Len() != 0 {
		t.Fatal("Reset did not clear bank bookkeeping")
	}
	if len(f.XorClauses) != clausesBefore {
		t.Fatal("Reset should not touch the solver's clauses")
	}
}

func TestAssumptionEnablesHashByForcingActivationVarFalse(t *testing.T) {
	f := solver.NewFake(1)
	s := projection.NewIndependentSet([]z.Var{1})
	b := &Builder{Solver: f, S: s, Rand: randsrc.NewSeeded(3)}
	bank := NewBank(b)
	bank.Add(1)

	assump := bank.Assumptions.Slice()[0]
	if assump.IsPos() {
		t.Fatal("assumption should be the negated activation literal")
	}
	if assump.Var() != bank.Hashes[0].ActVar {
		t.Fatal("assumption should reference the hash's own activation var")
	}
}
