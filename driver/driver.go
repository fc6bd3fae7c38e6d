// Package driver orchestrates ApproxMC and UniGen2 against a parsed
// formula: build the solver, run ApproxMC to locate the hash level,
// derive UniGen2's starting iteration and call-batching from it, and run
// UniGen2's sampling loop, re-parsing into a fresh solver every
// callsPerSolver batch to bound accumulated activation-variable and
// blocking-clause growth. Grounded on the reference implementation's
// UniSolve.
package driver

import (
	"io"
	"math"
	"time"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/irifrance/gigen/approxmc"
	"github.com/irifrance/gigen/cnfio"
	"github.com/irifrance/gigen/config"
	"github.com/irifrance/gigen/internal/projection"
	"github.com/irifrance/gigen/internal/randsrc"
	"github.com/irifrance/gigen/internal/solver"
	"github.com/irifrance/gigen/unigen"
)

// Result is what a Driver run reports back to a caller. Count always
// sets Count. Sample sets Samples once it reaches the sampling phase,
// sets Count instead when its ApproxMC phase times out, and sets neither
// when the formula is unsatisfiable.
type Result struct {
	Count             *approxmc.SATCount
	Samples           unigen.SolutionMultiset
	Unsatisfiable     bool
	TimedOut          bool
	FailedAssumptions []int // signed DIMACS literals, only set on Unsatisfiable
	Seed              int64
	Elapsed           time.Duration
}

// Driver holds everything a run needs beyond the per-call configuration:
// the formula, its independent set, and where to log.
type Driver struct {
	Formula *cnfio.Formula
	S       *projection.IndependentSet
	Log     *logrus.Logger
	LogSink io.Writer // optional structured per-trial log destination
}

// New builds a Driver from a parsed formula, defaulting the independent
// set to every formula variable when the input declared none.
func New(f *cnfio.Formula, log *logrus.Logger) *Driver {
	is := projection.Full(f.MaxVar)
	if len(f.Independent) > 0 {
		is = projection.NewIndependentSet(f.Independent)
	}
	return &Driver{Formula: f, S: is, Log: log}
}

func (d *Driver) newSolver() solver.Solver {
	g := gini.New()
	for _, cl := range d.Formula.Clauses {
		for _, lit := range cl {
			g.Add(lit)
		}
		g.Add(z.LitNull)
	}
	return solver.NewGiniSolver(g, d.Formula.MaxVar)
}

func (d *Driver) rngSource(cfg config.Config) *randsrc.Source {
	if cfg.Seed != 0 {
		return randsrc.NewSeeded(cfg.Seed)
	}
	return randsrc.NewEntropy()
}

// trialLogger returns the logger ApproxMC/UniGen2 should log their
// per-trial/per-attempt lines to. With no LogSink it's just d.Log; with
// one set, it's a logger at Debug level (so those lines are actually
// emitted regardless of d.Log's own level) writing to both d.Log's
// output and LogSink.
func (d *Driver) trialLogger() *logrus.Logger {
	if d.LogSink == nil {
		return d.Log
	}
	l := logrus.New()
	l.SetFormatter(d.Log.Formatter)
	l.SetLevel(logrus.DebugLevel)
	l.SetOutput(io.MultiWriter(d.Log.Out, d.LogSink))
	return l
}

// Count runs ApproxMC alone.
func (d *Driver) Count(cfg config.Config) (Result, error) {
	if err := cfg.Validate(d.S.Len()); err != nil {
		return Result{}, err
	}
	rng := d.rngSource(cfg)
	d.Log.WithField("seed", rng.Seed()).Info("gigen: starting ApproxMC")

	s := d.newSolver()
	started := time.Now()
	acfg := approxmc.Config{
		PivotApproxMC: cfg.PivotApproxMC,
		TApproxMC:     cfg.TApproxMC,
		TotalTimeout:  cfg.TotalTimeout,
		SafetyMargin:  cfg.SafetyMargin,
	}
	tlog := d.trialLogger()
	count := approxmc.Run(acfg, s, d.S, rng, tlog, started)

	res := Result{
		Count:             &count,
		Unsatisfiable:     count.Unsatisfiable,
		TimedOut:          count.TimedOut,
		FailedAssumptions: count.FailedAssumptions,
		Seed:              rng.Seed(),
		Elapsed:           time.Since(started),
	}
	return res, nil
}

// Sample runs the full ApproxMC + UniGen2 pipeline.
func (d *Driver) Sample(cfg config.Config) (Result, error) {
	if err := cfg.Validate(d.S.Len()); err != nil {
		return Result{}, err
	}
	rng := d.rngSource(cfg)
	d.Log.WithField("seed", rng.Seed()).Info("gigen: starting UniGen2")
	started := time.Now()
	tlog := d.trialLogger()

	startIteration := cfg.StartIteration
	var approxCount approxmc.SATCount
	if startIteration == 0 {
		s := d.newSolver()
		acfg := approxmc.Config{
			PivotApproxMC: cfg.PivotApproxMC,
			TApproxMC:     cfg.TApproxMC,
			TotalTimeout:  cfg.TotalTimeout,
			SafetyMargin:  cfg.SafetyMargin,
		}
		approxCount = approxmc.Run(acfg, s, d.S, rng, tlog, started)
		if approxCount.Unsatisfiable {
			return Result{
				Unsatisfiable:     true,
				FailedAssumptions: approxCount.FailedAssumptions,
				Seed:              rng.Seed(),
				Elapsed:           time.Since(started),
			}, nil
		}
		if approxCount.TimedOut {
			return Result{Count: &approxCount, TimedOut: true, Seed: rng.Seed(), Elapsed: time.Since(started)}, nil
		}
		ucfgLevel := unigen.Config{PivotUniGen: cfg.PivotUniGen}
		startIteration = unigen.Level(ucfgLevel, approxCount)
	}

	ucfg := unigen.Config{
		PivotUniGen:    cfg.PivotUniGen,
		Kappa:          cfg.Kappa,
		StartIteration: startIteration,
		Multisample:    cfg.Multisample,
		TotalTimeout:   cfg.TotalTimeout,
		SafetyMargin:   cfg.SafetyMargin,
	}

	minSolutions := int(float64(cfg.PivotUniGen) / (1.41 * (1 + cfg.Kappa)))
	samplesPerCall := 1
	if cfg.Multisample {
		samplesPerCall = minSolutions
	}
	callsNeeded := int(math.Ceil(float64(cfg.Samples) / float64(lo.Max([]int{samplesPerCall, 1}))))

	callsPerSolver := cfg.CallsPerSolver
	if callsPerSolver == 0 {
		s := d.newSolver()
		auto := s.NVars() / lo.Max([]int{startIteration * 14, 1})
		callsPerSolver = lo.Max([]int{1, lo.Min([]int{auto, callsNeeded})})
	}

	result := unigen.SolutionMultiset{}
	remaining := callsNeeded
	timedOut := false
	offset := 0
	for remaining > 0 {
		batch := callsPerSolver
		if batch > remaining {
			batch = remaining
		}
		s := d.newSolver()
		batchSamples := batch * samplesPerCall
		merge(result, unigen.Run(ucfg, s, d.S, batchSamples, rng, tlog, started, &offset))
		remaining -= batch

		if time.Since(started) > cfg.TotalTimeout-cfg.SafetyMargin {
			d.Log.Warn("gigen: timed out mid-sampling, returning partial results")
			timedOut = true
			break
		}
	}

	return Result{Samples: result, TimedOut: timedOut, Seed: rng.Seed(), Elapsed: time.Since(started)}, nil
}

func merge(dst, src unigen.SolutionMultiset) {
	for k, v := range src {
		dst[k] += v
	}
}
