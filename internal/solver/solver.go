// Package solver adapts a black-box CNF solver to the narrow surface
// ApproxMC and UniGen2 need: fresh variables, clauses, assumption-guarded
// solving, and models. The concrete backend is github.com/irifrance/gini;
// tests use Fake, a scripted double in the same style as gini's own
// gen.RandS.
package solver

import (
	"github.com/irifrance/gini/z"
)

// Outcome is the tri-valued result of a single solver call. Indet means the
// solver gave up (timeout or conflict budget) without deciding either way;
// callers must treat it as "no information", never as false.
type Outcome int

const (
	Unsat Outcome = iota
	Sat
	Indet
)

func (o Outcome) String() string {
	switch o {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "INDET"
	}
}

// Solver is the contract ApproxMC, UniGen2 and the HashBuilder/
// BoundedEnumerator require of an underlying CNF solver. It mirrors gini's
// own inter.S (MaxVar, Liter, Adder, Solvable, Model) plus the one
// primitive plain CNF solvers lack natively: parity (XOR) constraints.
type Solver interface {
	// NewVar allocates a fresh variable, distinct from every variable
	// returned so far and from every variable in the original formula.
	NewVar() z.Var

	// NVars returns the number of variables currently known to the
	// solver, original formula plus every NewVar call so far.
	NVars() int

	// AddClause asserts the disjunction of lits.
	AddClause(lits ...z.Lit)

	// AddXorClause asserts that the parity (XOR) of vars equals rhs.
	AddXorClause(vars []z.Var, rhs bool)

	// Solve runs the solver under the given assumptions and returns
	// Sat, Unsat, or Indet. On Sat, Value reports the found model until
	// the next Solve call.
	Solve(assumptions ...z.Lit) Outcome

	// Value reports the truth value the last Sat model assigned to lit.
	// Undefined if the last Solve did not return Sat.
	Value(lit z.Lit) bool

	// Why returns the minimized subset of the last Solve call's
	// assumptions sufficient for its Unsat result. Undefined if the last
	// Solve did not return Unsat.
	Why(dst []z.Lit) []z.Lit
}
