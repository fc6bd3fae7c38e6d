package approxmc

import (
	"testing"
	"time"

	"github.com/irifrance/gini/z"
	"github.com/sirupsen/logrus"

	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
)

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// TestRunUnsatisfiable exercises the Unsatisfiable scenario: with zero
// hashes, the very first bounded count is UNSAT, so
// ApproxMC must report Unsatisfiable immediately, without retrying (no
// hash draw could ever change a zero-hash result) and with the solver's
// failed assumptions carried on the result.
func TestRunUnsatisfiable(t *testing.T) {
	f := solver.NewFake(3)
	f.Default = solver.Unsat

	is := projection.NewIndependentSet([]z.Var{1, 2, 3})
	cfg := Config{PivotApproxMC: 4, TApproxMC: 1, TotalTimeout: time.Hour, SafetyMargin: time.Minute}

	got := Run(cfg, f, is, randsrc.NewSeeded(1), quietLog(), time.Now())
	if !got.Unsatisfiable {
		t.Fatalf("got %+v, want Unsatisfiable", got)
	}
	if got.FailedAssumptions == nil {
		t.Fatalf("got %+v, want FailedAssumptions populated from the solver's Why()", got)
	}
}

// TestRunRetriesOnUnsatAtIntermediateHash exercises a formula that goes
// UNSAT only after a hash has been added (a normal event as the hash
// count grows, not a base-formula UNSAT and not a timeout) —
// BoundedCount reports Exact{N: 0} at hashCount > 0, which must be
// retried with the same repeatTry backoff as CountIndet rather than
// recorded as a real cellSolCount of zero.
func TestRunRetriesOnUnsatAtIntermediateHash(t *testing.T) {
	f := solver.NewFake(3)
	// hashCount 0: two models found immediately hits the cap of 2 (Hit),
	// so a hash is added and hashCount advances to 1 without ever seeing
	// an UNSAT at hashCount 0.
	// hashCount 1: three consecutive UNSATs exhaust the retry budget and
	// advance to hashCount 2, where a real model is found and a closing
	// UNSAT proves the count exact at 1.
	f.Script = []solver.Outcome{
		solver.Sat, solver.Sat, // hashCount 0: Hit
		solver.Unsat, solver.Unsat, solver.Unsat, // hashCount 1: retry x3
		solver.Sat, solver.Unsat, // hashCount 2: Exact, N=1
	}
	f.Models[0] = map[z.Var]bool{1: true, 2: true, 3: true}
	f.Models[1] = map[z.Var]bool{1: false, 2: true, 3: true}
	f.Models[5] = map[z.Var]bool{1: true, 2: false, 3: false}

	is := projection.NewIndependentSet([]z.Var{1, 2, 3})
	cfg := Config{PivotApproxMC: 1, TApproxMC: 1, TotalTimeout: time.Hour, SafetyMargin: time.Minute}

	got := Run(cfg, f, is, randsrc.NewSeeded(1), quietLog(), time.Now())
	if got.Unsatisfiable {
		t.Fatalf("got %+v, want a real (non-unsatisfiable) measurement", got)
	}
	if got.HashCount != 2 || got.CellSolCount != 1 {
		t.Fatalf("got HashCount=%d CellSolCount=%d, want HashCount=2 CellSolCount=1 after retrying past the spurious UNSAT-at-hashCount-1 result", got.HashCount, got.CellSolCount)
	}
}

// TestRunTimeout exercises the deadline path: an always-Sat solver
// under a totalTimeout that has already effectively elapsed must report
// TimedOut without hanging.
func TestRunTimeout(t *testing.T) {
	f := solver.NewFake(3)
	f.Default = solver.Sat
	is := projection.NewIndependentSet([]z.Var{1, 2, 3})
	cfg := Config{PivotApproxMC: 4, TApproxMC: 1, TotalTimeout: 0, SafetyMargin: 0}

	got := Run(cfg, f, is, randsrc.NewSeeded(1), quietLog(), time.Now().Add(-time.Hour))
	if !got.TimedOut {
		t.Fatalf("got %+v, want TimedOut", got)
	}
}

// TestRunUsesUpperMedianOnEvenTrialCount exercises the even-TApproxMC
// tie-break: with four trials all recording their exact count at
// hashCount 0 (so the scaled values are the raw counts themselves,
// [1, 3, 5, 7] once sorted), the required upper median is 5 (index 2),
// not the lower median 3 (index 1) a naive (len-1)/2 formula would pick.
func TestRunUsesUpperMedianOnEvenTrialCount(t *testing.T) {
	var script []solver.Outcome
	for _, n := range []int{1, 3, 5, 7} {
		for i := 0; i < n; i++ {
			script = append(script, solver.Sat)
		}
		script = append(script, solver.Unsat)
	}
	f := solver.NewFake(3)
	f.Script = script

	is := projection.NewIndependentSet([]z.Var{1, 2, 3})
	cfg := Config{PivotApproxMC: 10, TApproxMC: 4, TotalTimeout: time.Hour, SafetyMargin: time.Minute}

	got := Run(cfg, f, is, randsrc.NewSeeded(1), quietLog(), time.Now())
	if got.Unsatisfiable {
		t.Fatalf("got %+v, want a real measurement", got)
	}
	if got.HashCount != 0 || got.CellSolCount != 5 {
		t.Fatalf("got HashCount=%d CellSolCount=%d, want HashCount=0 CellSolCount=5 (the upper median of [1,3,5,7])", got.HashCount, got.CellSolCount)
	}
}
