package solver

import "github.com/irifrance/gini/z"

// addXorGate asserts z <-> (a XOR b) using the standard four-clause direct
// CNF encoding, the same shape logic.C.Xor builds a two-input xor gate
// with in the teacher repo, generalized here to work directly against an
// Adder rather than a strashed circuit.
func addXorGate(add func(lits ...z.Lit), z_, a, b z.Lit) {
	add(a.Not(), b.Not(), z_.Not())
	add(a, b, z_.Not())
	add(a, b.Not(), z_)
	add(a.Not(), b, z_)
}

// tseitinXor asserts the parity of vars equals rhs by chaining pairwise xor
// gates through fresh auxiliary variables, since plain CNF solvers (gini
// included) have no native parity primitive. newVar mints a fresh
// variable and add asserts one clause per call.
func tseitinXor(newVar func() z.Var, add func(lits ...z.Lit), vars []z.Var, rhs bool) {
	if len(vars) == 0 {
		// The empty parity is 0; asserting rhs=true is unsatisfiable,
		// rhs=false is trivially satisfied.
		if rhs {
			add()
		}
		return
	}

	acc := vars[0].Pos()
	for _, v := range vars[1:] {
		g := newVar().Pos()
		addXorGate(add, g, acc, v.Pos())
		acc = g
	}

	if rhs {
		add(acc)
	} else {
		add(acc.Not())
	}
}
