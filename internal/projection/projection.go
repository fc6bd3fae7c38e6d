// Package projection implements the canonical string form of a model
// restricted to the independent variable set S, the key used throughout
// ApproxMC and UniGen2's SolutionMultiset. The format is the signed
// variables of the reference implementation's "v <signed-vars...> 0"
// DIMACS-style line, without the "v" prefix and the closing 0.
package projection

import (
	"sort"
	"strconv"
	"strings"

	"github.com/irifrance/gini/z"
)

// IndependentSet is the ordered set S of variables a projected count or
// sample is defined over. Order is fixed at construction and used
// consistently everywhere S is iterated (hash-clause construction,
// canonicalization) so that replay with the same seed is reproducible.
type IndependentSet struct {
	vars []z.Var
}

// NewIndependentSet builds an IndependentSet from vars, sorted ascending
// and de-duplicated.
func NewIndependentSet(vars []z.Var) *IndependentSet {
	cp := make([]z.Var, len(vars))
	copy(cp, vars)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })

	out := cp[:0]
	seen := false
	var prev z.Var
	for _, v := range cp {
		if !seen || v != prev {
			out = append(out, v)
			prev = v
			seen = true
		}
	}
	return &IndependentSet{vars: out}
}

// Full builds an IndependentSet covering every variable 1..maxVar,
// the default when no independent-set declaration is present in the
// input formula.
func Full(maxVar int) *IndependentSet {
	vars := make([]z.Var, maxVar)
	for i := 0; i < maxVar; i++ {
		vars[i] = z.Var(i + 1)
	}
	return &IndependentSet{vars: vars}
}

func (s *IndependentSet) Vars() []z.Var { return s.vars }
func (s *IndependentSet) Len() int      { return len(s.vars) }

// Projection is the canonical string encoding of a model's restriction to
// S: signed decimal variable numbers in S's fixed order, space separated.
type Projection string

// Canonicalize restricts a model (queried via value) to S and encodes it
// canonically, e.g. "1 -2 3", for use as a SolutionMultiset key.
func Canonicalize(s *IndependentSet, value func(z.Lit) bool) Projection {
	parts := make([]string, 0, len(s.vars))
	for _, v := range s.vars {
		lit := v.Pos()
		n := lit.Dimacs()
		if !value(lit) {
			n = -n
		}
		parts = append(parts, strconv.Itoa(n))
	}
	return Projection(strings.Join(parts, " "))
}
