package solver

import (
	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

// GiniSolver adapts *gini.Gini, the real solver this repository treats as
// a black box, to Solver. It never inspects gini's internal CDCL state;
// everything beyond Add/Assume/Solve/Value is built on top, in
// particular AddXorClause via Tseitin encoding (xor.go).
type GiniSolver struct {
	g     *gini.Gini
	nVars int
}

// NewGiniSolver wraps g. maxVar is the highest variable already in use in
// g's formula (0 if g is empty).
func NewGiniSolver(g *gini.Gini, maxVar int) *GiniSolver {
	return &GiniSolver{g: g, nVars: maxVar}
}

func (s *GiniSolver) NewVar() z.Var {
	s.nVars++
	return s.g.Lit().Var()
}

func (s *GiniSolver) NVars() int { return s.nVars }

func (s *GiniSolver) addRaw(lits ...z.Lit) {
	for _, l := range lits {
		s.g.Add(l)
	}
	s.g.Add(z.LitNull)
}

func (s *GiniSolver) AddClause(lits ...z.Lit) {
	s.addRaw(lits...)
}

func (s *GiniSolver) AddXorClause(vars []z.Var, rhs bool) {
	tseitinXor(func() z.Var { return s.NewVar() }, s.addRaw, vars, rhs)
}

func (s *GiniSolver) Solve(assumptions ...z.Lit) Outcome {
	s.g.Assume(assumptions...)
	switch s.g.Solve() {
	case 1:
		return Sat
	case -1:
		return Unsat
	default:
		return Indet
	}
}

func (s *GiniSolver) Value(lit z.Lit) bool {
	return s.g.Value(lit)
}

func (s *GiniSolver) Why(dst []z.Lit) []z.Lit {
	return s.g.Why(dst)
}
