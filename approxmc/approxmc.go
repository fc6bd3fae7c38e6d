// Package approxmc implements the ApproxMC algorithm: estimate the
// number of models of a CNF formula projected onto an independent
// variable set by searching, for several independent trials, for the
// hash count at which a bounded enumeration first comes back exact, then
// combining the per-trial (hashCount, cellSize) pairs into a scaled
// median. Grounded on the reference implementation's ApproxMC loop, with
// the retry/backoff branch driven by enum.CountResult's tagged outcome
// instead of a negative-count sentinel.
package approxmc

import (
	"math"
	"sort"
	"time"

	"github.com/irifrance/gini/z"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/irifrance/gigen/internal/enum"
	"github.com/irifrance/gigen/internal/hashbank"
	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
)

// Config is the subset of config.Config ApproxMC needs.
type Config struct {
	PivotApproxMC int
	TApproxMC     int
	TotalTimeout  time.Duration
	SafetyMargin  time.Duration
}

// SATCount is the result of one ApproxMC run: an estimate of
// 2^HashCount * CellSolCount models, or Unsatisfiable if the base
// formula (before any hash was applied) has no models at all.
type SATCount struct {
	CellSolCount      int
	HashCount         int
	Unsatisfiable     bool
	TimedOut          bool
	FailedAssumptions []int // signed DIMACS literals, only set on Unsatisfiable
}

// Estimate returns the point estimate 2^HashCount * CellSolCount.
func (c SATCount) Estimate() float64 {
	return float64(c.CellSolCount) * math.Pow(2, float64(c.HashCount))
}

// Run executes ApproxMC against s, restricted to independent set is,
// starting the clock at startedAt (a caller-supplied wall-clock origin,
// so the algorithm's own totalTimeout accounting never calls time.Now
// itself outside of one place, matching the deterministic-replay design
// goal).
func Run(cfg Config, s solver.Solver, is *projection.IndependentSet, rng *randsrc.Source, log *logrus.Logger, startedAt time.Time) SATCount {
	builder := &hashbank.Builder{Solver: s, S: is, Rand: rng}
	bank := hashbank.NewBank(builder)
	enumerator := &enum.Enumerator{Solver: s, S: is}

	timedOut := func() bool {
		return time.Since(startedAt) > cfg.TotalTimeout-cfg.SafetyMargin
	}

	var hashCounts []int
	var cellCounts []int
	sawTimeout := false

trials:
	for trial := 0; trial < cfg.TApproxMC; trial++ {
		bank.Reset()
		repeatTry := 0
		hashCount := 0
		lastCellCount := -1

		for hashCount < s.NVars() {
			if timedOut() {
				sawTimeout = true
				break trials
			}

			result := enumerator.BoundedCount(cfg.PivotApproxMC+1, bank.Assumptions.Slice())
			log.WithFields(logrus.Fields{
				"trial": trial, "hashCount": hashCount, "kind": result.Kind, "n": result.N,
			}).Debug("approxmc: bounded count")

			if result.Kind == enum.Exact && result.N == 0 && hashCount == 0 {
				// No hashes are active yet, so this UNSAT is the base
				// formula's own, not an artifact of a particular hash
				// draw: resampling can never change it. Report it directly.
				return SATCount{Unsatisfiable: true, FailedAssumptions: litsToInts(s.Why(nil))}
			}

			if result.Kind == enum.CountIndet || (result.Kind == enum.Exact && result.N == 0) {
				// c <= 0: either the solver gave up (Indet) or the formula
				// is UNSAT at this hash count. Both retry the same way.
				bank.Reset()
				if repeatTry < 2 {
					bank.Add(hashCount)
					repeatTry++
					continue
				}
				bank.Add(hashCount + 1)
				repeatTry = 0
				hashCount++
				continue
			}

			switch result.Kind {
			case enum.Hit:
				bank.Add(1)
				hashCount++
				continue
			default: // Exact, N >= 1
				lastCellCount = result.N
			}
			break
		}

		if lastCellCount < 0 {
			// Ran out of variables to hash on; this trial contributes
			// nothing usable. (A timeout leaves the trial loop entirely.)
			continue
		}
		hashCounts = append(hashCounts, hashCount)
		cellCounts = append(cellCounts, lastCellCount)
	}

	if len(hashCounts) == 0 {
		// No trial ever recorded a cell in range. If that's because the
		// deadline hit, we simply don't know; otherwise every trial
		// reached s.NVars() hashes without recording one, which is
		// reported as unsatisfiable under these hashes. (A base formula
		// with no models at all has already returned above.)
		if sawTimeout {
			return SATCount{TimedOut: true}
		}
		return SATCount{Unsatisfiable: true}
	}

	minHash := lo.Min(hashCounts)
	scaled := make([]int, len(cellCounts))
	for i, c := range cellCounts {
		scaled[i] = c * (1 << uint(hashCounts[i]-minHash))
	}

	sort.Ints(scaled)
	// Upper median: for an even TApproxMC the tie-break picks the higher
	// of the two middle values, index len/2 (0-indexed) rather than the
	// lower len/2-1.
	median := scaled[len(scaled)/2]

	return SATCount{CellSolCount: median, HashCount: minHash, TimedOut: sawTimeout}
}

func litsToInts(lits []z.Lit) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = l.Dimacs()
	}
	return out
}
