package solver

import "github.com/irifrance/gini/z"

// Fake is a scripted Solver double for exercising ApproxMC/UniGen2 control
// flow without a real backend, in the spirit of gini's own gen.RandS: a
// stand-in that implements the full interface but returns pre-programmed
// results instead of actually solving.
//
// Script, if non-empty, supplies the Outcome for successive Solve calls in
// order; once exhausted, Default is returned forever. Models supplies the
// literal assignment to report on the matching Sat call (by call index,
// 0-based); a call with no entry reports every variable true (so a
// negative literal reads false). AddXorClause records the XorClause and
// also Tseitin-encodes it into Clauses, as GiniSolver does.
type Fake struct {
	Script  []Outcome
	Default Outcome
	Models  map[int]map[z.Var]bool

	// FailedAssumptions, if set for a given (0-based) Unsat call index,
	// is what Why reports for that call. Absent an entry, Why echoes
	// back whatever assumptions were passed to that Solve call.
	FailedAssumptions map[int][]z.Lit

	calls       int
	nVars       int
	model       map[z.Var]bool
	lastAssumps []z.Lit
	lastIdx     int

	Clauses    [][]z.Lit
	XorClauses []XorClause
}

type XorClause struct {
	Vars []z.Var
	Rhs  bool
}

func NewFake(maxVar int) *Fake {
	return &Fake{nVars: maxVar, Models: map[int]map[z.Var]bool{}}
}

func (f *Fake) NewVar() z.Var {
	f.nVars++
	return z.Var(f.nVars)
}

func (f *Fake) NVars() int { return f.nVars }

func (f *Fake) AddClause(lits ...z.Lit) {
	cp := make([]z.Lit, len(lits))
	copy(cp, lits)
	f.Clauses = append(f.Clauses, cp)
}

func (f *Fake) AddXorClause(vars []z.Var, rhs bool) {
	cp := make([]z.Var, len(vars))
	copy(cp, vars)
	f.XorClauses = append(f.XorClauses, XorClause{Vars: cp, Rhs: rhs})
	tseitinXor(f.NewVar, f.AddClause, vars, rhs)
}

func (f *Fake) Solve(assumptions ...z.Lit) Outcome {
	idx := f.calls
	f.calls++
	f.lastIdx = idx
	f.lastAssumps = append([]z.Lit(nil), assumptions...)

	out := f.Default
	if idx < len(f.Script) {
		out = f.Script[idx]
	}

	if out == Sat {
		f.model = f.Models[idx]
	} else {
		f.model = nil
	}
	return out
}

func (f *Fake) Value(lit z.Lit) bool {
	v, ok := f.model[lit.Var()]
	if !ok {
		v = true
	}
	if !lit.IsPos() {
		v = !v
	}
	return v
}

func (f *Fake) Why(dst []z.Lit) []z.Lit {
	if lits, ok := f.FailedAssumptions[f.lastIdx]; ok {
		return append(dst[:0], lits...)
	}
	return append(dst[:0], f.lastAssumps...)
}
