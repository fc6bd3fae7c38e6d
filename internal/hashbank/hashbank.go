// Package hashbank builds and tracks random XOR ("parity") hash
// constraints over an independent variable set, the mechanism ApproxMC
// and UniGen2 use to partition the solution space into roughly 2^-q
// sized cells. Each hash is guarded by its own activation variable folded
// directly into the parity equation, the same trick the reference
// implementation's AddHash uses: assuming the activation variable false
// makes the hash live; leaving it unassumed lets the solver pick any
// value for it, which makes the clause trivially satisfiable and so,
// in effect, disabled.
package hashbank

import (
	"github.com/irifrance/gini/z"

	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
)

// ActiveHash records one parity constraint added to the solver: its
// activation variable, the independent-set variables folded into the
// parity, and the target right-hand side.
type ActiveHash struct {
	ActVar z.Var
	Vars   []z.Var
	Rhs    bool
}

// AssumptionStack is the ordered list of literals asserted to keep every
// currently-live hash active. Order does not matter to the solver, but is
// kept stable for reproducible logging.
type AssumptionStack struct {
	lits []z.Lit
}

func (a *AssumptionStack) Push(l z.Lit) { a.lits = append(a.lits, l) }
func (a *AssumptionStack) Clear()       { a.lits = nil }
func (a *AssumptionStack) Slice() []z.Lit {
	out := make([]z.Lit, len(a.lits))
	copy(out, a.lits)
	return out
}
func (a *AssumptionStack) Len() int { return len(a.lits) }

// Builder mints new random parity constraints against a fixed independent
// set, drawing coefficients from a Source the way the reference
// implementation's GenerateRandomBits does.
type Builder struct {
	Solver solver.Solver
	S      *projection.IndependentSet
	Rand   *randsrc.Source
}

// AddHash adds n freshly-drawn XOR constraints to the solver and returns
// the ActiveHash records plus the assumption literals that must be
// asserted to keep them all live, matching the reference AddHash's
// combined "mint activation var, build random parity, add_xor_clause,
// push assumption" loop.
func (b *Builder) AddHash(n int) ([]ActiveHash, []z.Lit) {
	hashes := make([]ActiveHash, 0, n)
	assumps := make([]z.Lit, 0, n)

	svars := b.S.Vars()
	bits := make([]byte, len(svars)+1)

	for i := 0; i < n; i++ {
		actVar := b.Solver.NewVar()
		assumps = append(assumps, actVar.Pos().Not())

		b.Rand.Bits(bits)
		rhs := bits[0] == 1

		vars := make([]z.Var, 0, len(svars)+1)
		vars = append(vars, actVar)
		for j, v := range svars {
			if bits[j+1] == 1 {
				vars = append(vars, v)
			}
		}

		b.Solver.AddXorClause(vars, rhs)
		hashes = append(hashes, ActiveHash{ActVar: actVar, Vars: vars, Rhs: rhs})
	}

	return hashes, assumps
}

// Bank aggregates every hash added so far during one solver's lifetime
// together with the assumption stack that keeps the currently-desired
// subset of them live. Reset drops the stack (and the hash bookkeeping
// with it) without touching the solver: previously added hashes become
// permanently inert once no assumption forces their activation variable
// false, exactly as spec's AssumptionStack lifecycle describes.
type Bank struct {
	Builder     *Builder
	Hashes      []ActiveHash
	Assumptions AssumptionStack
}

func NewBank(b *Builder) *Bank {
	return &Bank{Builder: b}
}

// Add grows the bank by n hashes, extending the assumption stack.
func (bk *Bank) Add(n int) {
	hs, assumps := bk.Builder.AddHash(n)
	bk.Hashes = append(bk.Hashes, hs...)
	for _, a := range assumps {
		bk.Assumptions.Push(a)
	}
}

// Reset clears the assumption stack and hash bookkeeping so a subsequent
// Add starts a fresh count of live hashes, without discarding the
// solver's accumulated (now inert) clauses.
func (bk *Bank) Reset() {
	bk.Hashes = nil
	bk.Assumptions.Clear()
}

// Count returns the number of currently-live hashes.
func (bk *Bank) Count() int { return len(bk.Hashes) }
