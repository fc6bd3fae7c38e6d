// Package unigen implements UniGen2: near-uniform sampling of a CNF
// formula's models projected onto an independent set, by probing hash
// counts around a precomputed level q until the enumerated cell size
// lands in a target band, then drawing samples uniformly from that cell.
// Grounded on the reference implementation's UniGen/UniSolve functions.
package unigen

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irifrance/gigen/approxmc"
	"github.com/irifrance/gigen/internal/enum"
	"github.com/irifrance/gigen/internal/hashbank"
	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
)

// Config is the subset of config.Config UniGen2 needs.
type Config struct {
	PivotUniGen    int
	Kappa          float64
	StartIteration int // starting hash count q; callers derive it with Level when not configured
	Multisample    bool
	TotalTimeout   time.Duration
	SafetyMargin   time.Duration
}

// SolutionMultiset counts how many times each projected model was drawn
// across every sample; near-uniform sampling means these counts should be
// roughly equal in expectation.
type SolutionMultiset map[projection.Projection]int

// Level computes the starting hash count q from an ApproxMC estimate,
// matching the reference UniSolve's
// round(hashCount + log2(cellSolCount) + log2(1.8) - log2(pivotUniGen)) - 2,
// clamped at 0.
func Level(cfg Config, count approxmc.SATCount) int {
	q := float64(count.HashCount) +
		math.Log2(float64(count.CellSolCount)) +
		math.Log2(1.8) -
		math.Log2(float64(cfg.PivotUniGen)) - 2
	rounded := int(math.Round(q))
	if rounded < 0 {
		rounded = 0
	}
	return rounded
}

// samplesToReturn mirrors the reference SolutionsToReturn: multisample
// runs keep minSolutions models (or every model, if the cell holds
// fewer) from an in-range cell, single-sample runs keep exactly one.
func samplesToReturn(cfg Config, minSolutions int) int {
	if cfg.Multisample {
		return minSolutions
	}
	return 1
}

// batchState holds everything one probing attempt needs to run at a
// given hash offset from startIteration and report the enum.SampleResult
// plus, on success, the models chosen from it.
type batchState struct {
	bank       *hashbank.Bank
	enumerator *enum.Enumerator
	rng        *randsrc.Source
	minSol     int
	maxSol     int
	toReturn   int
}

func (b *batchState) attempt(hashCount int) (enum.SampleResult, []projection.Projection) {
	res := b.enumerator.BoundedSample(b.minSol, b.maxSol, b.bank.Assumptions.Slice())
	if res.Kind != enum.InRange {
		return res, nil
	}
	return res, enum.ChooseSamples(res.Models, b.toReturn, b.rng)
}

// setHashCount grows or shrinks the bank so exactly n hashes are live,
// matching the reference's hashDelta > 0 / hashDelta < 0 branches in
// UniGen's inner loop.
func setHashCount(bank *hashbank.Bank, n int) {
	delta := n - bank.Count()
	if delta > 0 {
		bank.Add(delta)
		return
	}
	if delta < 0 {
		bank.Reset()
		bank.Add(n)
	}
}

// Run draws projected models near-uniformly from s restricted to is,
// probing hash counts around cfg.StartIteration, until at least samples
// have been drawn or the deadline is reached. Each success adds
// samplesToReturn models at once, so with Multisample the total can
// exceed samples.
//
// lastOffset is the reference implementation's lastSuccessfulHashOffset:
// on entry it is the offset from StartIteration the previous call last
// probed successfully from (0 for a first call), and on return it holds
// wherever this call left off, so a caller splitting the sampling work
// across several Run calls against fresh solvers can resume probing
// where the last call stopped instead of restarting the offset search
// at 0 every time. A nil lastOffset behaves like a fresh *int(0).
func Run(cfg Config, s solver.Solver, is *projection.IndependentSet, samples int, rng *randsrc.Source, log *logrus.Logger, startedAt time.Time, lastOffset *int) SolutionMultiset {
	builder := &hashbank.Builder{Solver: s, S: is, Rand: rng}
	bank := hashbank.NewBank(builder)
	enumerator := &enum.Enumerator{Solver: s, S: is}

	maxSolutions := int(1.41*(1+cfg.Kappa)*float64(cfg.PivotUniGen) + 2)
	minSolutions := int(float64(cfg.PivotUniGen) / (1.41 * (1 + cfg.Kappa)))

	bs := &batchState{
		bank: bank, enumerator: enumerator, rng: rng,
		minSol: minSolutions, maxSol: maxSolutions + 1,
		toReturn: samplesToReturn(cfg, minSolutions),
	}

	result := SolutionMultiset{}
	timedOut := func() bool {
		return time.Since(startedAt) > cfg.TotalTimeout-cfg.SafetyMargin
	}

	if lastOffset == nil {
		lastOffset = new(int)
	}
	drawn := 0

	for drawn < samples {
		if timedOut() {
			log.Warn("unigen2: timed out before reaching requested sample count")
			break
		}

		var offsets [3]int
		offsets[0] = *lastOffset
		switch *lastOffset {
		case 0:
			offsets[1], offsets[2] = 1, 2
		case 2:
			offsets[1], offsets[2] = 1, 0
		default:
			offsets[1], offsets[2] = 0, 2
		}

		bank.Reset()
		repeatTry := 0
		succeeded := false

		for j := 0; j < 3; j++ {
			offset := offsets[j]
			hashCount := offset + cfg.StartIteration
			setHashCount(bank, hashCount)

			if timedOut() {
				break
			}

			res, models := bs.attempt(hashCount)
			log.WithFields(logrus.Fields{
				"offset": offset, "hashCount": hashCount, "kind": res.Kind, "n": res.N,
			}).Debug("unigen2: bounded sample")

			switch res.Kind {
			case enum.SampleIndet:
				bank.Reset()
				if repeatTry < 2 {
					setHashCount(bank, hashCount)
					j--
					repeatTry++
					continue
				}
				if j == 0 && offset == 1 {
					offsets[1], offsets[2] = 0, 2
				}
				repeatTry = 0
				continue
			case enum.InRange:
				*lastOffset = offset
				for _, m := range models {
					result[m]++
					drawn++
				}
				succeeded = true
			case enum.OutOfRange:
				if j == 0 && offset == 1 {
					if res.N < minSolutions {
						offsets[1], offsets[2] = 0, 2
					} else {
						offsets[1], offsets[2] = 2, 0
					}
				}
			}

			if succeeded {
				break
			}
		}

		if !succeeded {
			// Every offset in this round failed to land in range; the
			// reference implementation retries the same sample slot
			// rather than giving up on it.
			continue
		}
	}

	return result
}
