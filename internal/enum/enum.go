// Package enum implements BoundedEnumerator, the shared engine ApproxMC
// and UniGen2 both build on: enumerate distinct projected models one
// blocking clause at a time, stopping at a cap. Grounded on the reference
// implementation's BoundedSATCount and BoundedSAT, but reports outcomes
// as a tagged union (Exact/Hit/Indet, InRange/OutOfRange/Indet) instead
// of the reference's negative-count-encodes-timeout convention, and
// stops exactly at the cap rather than spending one extra solver call to
// distinguish "hit the cap" from "one more than the cap".
package enum

import (
	"github.com/irifrance/gini/z"

	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
)

type CountKind int

const (
	Exact CountKind = iota
	Hit
	CountIndet
)

// CountResult is the outcome of a bounded model count: Exact means the
// solver proved there are exactly N projected models; Hit means N
// (== the requested cap) were found and enumeration stopped without
// determining whether more exist; CountIndet means the solver gave up
// before either was established, after finding N so far.
type CountResult struct {
	Kind CountKind
	N    int
}

type SampleKind int

const (
	InRange SampleKind = iota
	OutOfRange
	SampleIndet
)

// SampleResult is the outcome of a bounded sample-and-count: InRange
// means the cell held between the caller's min and max bounds and
// Models holds every model found (for later uniform selection);
// OutOfRange means the count fell outside those bounds; SampleIndet
// means the solver gave up mid-enumeration.
type SampleResult struct {
	Kind   SampleKind
	N      int
	Models []projection.Projection
}

// Enumerator enumerates distinct projections of a formula's models onto
// an independent set, under a caller-supplied assumption set, guarding
// every blocking clause it adds behind one fresh activation variable so
// they can all be retracted in a single unit clause when done.
type Enumerator struct {
	Solver solver.Solver
	S      *projection.IndependentSet
}

func (e *Enumerator) blockCurrentModel(actVar z.Var) {
	lits := make([]z.Lit, 0, e.S.Len()+1)
	lits = append(lits, actVar.Pos().Not())
	for _, v := range e.S.Vars() {
		lit := v.Pos()
		if e.Solver.Value(lit) {
			lits = append(lits, lit.Not())
		} else {
			lits = append(lits, lit)
		}
	}
	e.Solver.AddClause(lits...)
}

func (e *Enumerator) withGuard(assumptions []z.Lit, body func(actVar z.Var, allAssumps []z.Lit)) {
	actVar := e.Solver.NewVar()
	allAssumps := make([]z.Lit, 0, len(assumptions)+1)
	allAssumps = append(allAssumps, assumptions...)
	allAssumps = append(allAssumps, actVar.Pos())

	body(actVar, allAssumps)

	// Permanently retire every blocking clause guarded by actVar.
	e.Solver.AddClause(actVar.Pos().Not())
}

// BoundedCount enumerates up to cap distinct projected models under
// assumptions, adding one blocking clause per model found.
func (e *Enumerator) BoundedCount(capN int, assumptions []z.Lit) CountResult {
	var result CountResult
	e.withGuard(assumptions, func(actVar z.Var, allAssumps []z.Lit) {
		found := 0
		for {
			ret := e.Solver.Solve(allAssumps...)
			switch ret {
			case solver.Indet:
				result = CountResult{Kind: CountIndet, N: found}
				return
			case solver.Unsat:
				result = CountResult{Kind: Exact, N: found}
				return
			}

			found++
			if found >= capN {
				result = CountResult{Kind: Hit, N: found}
				return
			}
			e.blockCurrentModel(actVar)
		}
	})
	return result
}

// BoundedSample enumerates models under assumptions, stopping once the
// count is known to be at least maxN (OutOfRange), proven exact and below
// minN (OutOfRange), proven exact and within [minN, maxN) (InRange, with
// every found model recorded), or the solver goes Indet.
func (e *Enumerator) BoundedSample(minN, maxN int, assumptions []z.Lit) SampleResult {
	var result SampleResult
	e.withGuard(assumptions, func(actVar z.Var, allAssumps []z.Lit) {
		var models []projection.Projection
		for {
			ret := e.Solver.Solve(allAssumps...)
			switch ret {
			case solver.Indet:
				result = SampleResult{Kind: SampleIndet, N: len(models)}
				return
			case solver.Unsat:
				n := len(models)
				if n < minN {
					result = SampleResult{Kind: OutOfRange, N: n}
				} else {
					result = SampleResult{Kind: InRange, N: n, Models: models}
				}
				return
			}

			models = append(models, projection.Canonicalize(e.S, e.Solver.Value))
			if len(models) >= maxN {
				result = SampleResult{Kind: OutOfRange, N: len(models)}
				return
			}
			e.blockCurrentModel(actVar)
		}
	})
	return result
}

// ChooseSamples draws n projections without replacement from models,
// using rng for the shuffle, matching the reference implementation's
// shuffle-then-take selection of a uniform subset of a bounded cell.
func ChooseSamples(models []projection.Projection, n int, rng *randsrc.Source) []projection.Projection {
	if n > len(models) {
		n = len(models)
	}
	cp := make([]projection.Projection, len(models))
	copy(cp, models)
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	return cp[:n]
}
