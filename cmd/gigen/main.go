// Command gigen counts or samples the models of a CNF formula projected
// onto an independent variable set, using ApproxMC and UniGen2. CLI
// conventions follow cmd/gini: gzip-transparent input, "-" for stdin,
// DIMACS-style output lines.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irifrance/gigen/cnfio"
	"github.com/irifrance/gigen/config"
	"github.com/irifrance/gigen/driver"
)

var (
	flagSamples        int
	flagPivotAC        int
	flagPivotUG        int
	flagKappa          float64
	flagTApproxMC      int
	flagStartIteration int
	flagCallsPerSolver int
	flagMultisample    bool
	flagTotalTimeout   time.Duration
	flagSeed           int64
	flagVerbose        bool
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if flagVerbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func cfgFromFlags() config.Config {
	c := config.Default()
	c.Samples = flagSamples
	c.PivotApproxMC = flagPivotAC
	c.PivotUniGen = flagPivotUG
	c.Kappa = flagKappa
	c.TApproxMC = flagTApproxMC
	c.StartIteration = flagStartIteration
	c.CallsPerSolver = flagCallsPerSolver
	c.Multisample = flagMultisample
	c.TotalTimeout = flagTotalTimeout
	c.Seed = flagSeed
	return c
}

func loadFormula(path string) (*cnfio.Formula, error) {
	rc, err := cnfio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return cnfio.Parse(rc)
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagPivotAC, "pivot-approxmc", config.Default().PivotApproxMC, "ApproxMC pivot")
	cmd.Flags().IntVar(&flagPivotUG, "pivot-unigen", config.Default().PivotUniGen, "UniGen2 pivot")
	cmd.Flags().Float64Var(&flagKappa, "kappa", config.Default().Kappa, "UniGen2 kappa")
	cmd.Flags().IntVar(&flagTApproxMC, "t-approxmc", config.Default().TApproxMC, "number of ApproxMC trials")
	cmd.Flags().IntVar(&flagStartIteration, "start-iteration", 0, "override UniGen2's initial hash count (0 = derive from ApproxMC)")
	cmd.Flags().DurationVar(&flagTotalTimeout, "total-timeout", config.Default().TotalTimeout, "wall-clock deadline")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = seed from OS entropy)")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every trial/attempt")
}

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [formula.cnf]",
		Short: "Estimate the number of models projected onto the independent set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFormula(args[0])
			if err != nil {
				return err
			}
			d := driver.New(f, newLogger())
			res, err := d.Count(cfgFromFlags())
			if err != nil {
				return err
			}
			printCountResult(res)
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [formula.cnf]",
		Short: "Draw near-uniform samples of models projected onto the independent set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFormula(args[0])
			if err != nil {
				return err
			}
			d := driver.New(f, newLogger())
			res, err := d.Sample(cfgFromFlags())
			if err != nil {
				return err
			}
			printSampleResult(res)
			return nil
		},
	}
	addCommonFlags(cmd)
	cmd.Flags().IntVar(&flagSamples, "samples", 1, "number of samples to draw")
	cmd.Flags().IntVar(&flagCallsPerSolver, "calls-per-solver", 0, "batches per fresh solver instance (0 = auto)")
	cmd.Flags().BoolVar(&flagMultisample, "multisample", false, "keep pivot/(1.41*(1+kappa)) models from each in-range cell, not just one")
	return cmd
}

func printCountResult(res driver.Result) {
	if res.Unsatisfiable {
		fmt.Println("s UNSATISFIABLE")
		outputFailed(res.FailedAssumptions)
		return
	}
	if res.TimedOut {
		fmt.Println("s INDETERMINATE (timed out)")
	}
	fmt.Printf("c seed %d elapsed %s\n", res.Seed, res.Elapsed)
	fmt.Printf("s APPROXMC cellSolCount=%d hashCount=%d estimate=%.0f\n",
		res.Count.CellSolCount, res.Count.HashCount, res.Count.Estimate())
}

func printSampleResult(res driver.Result) {
	if res.Unsatisfiable {
		fmt.Println("s UNSATISFIABLE")
		outputFailed(res.FailedAssumptions)
		return
	}
	fmt.Printf("c seed %d elapsed %s\n", res.Seed, res.Elapsed)
	for proj, n := range res.Samples {
		fmt.Printf("v %s : %d\n", proj, n)
	}
}

// outputFailed prints fs (signed DIMACS literals) as one or more "f"
// lines wrapped at 78 columns, matching cmd/gini's failed-assumption
// output.
func outputFailed(fs []int) {
	if len(fs) == 0 {
		return
	}
	col := 2
	fmt.Printf("f")
	for _, f := range fs {
		n := len(fmt.Sprintf("%d", f))
		if col+n > 78 {
			fmt.Printf("\nf")
			col = 2
		}
		fmt.Printf(" %d", f)
		col += n + 1
	}
	fmt.Printf("\n")
}

func main() {
	root := &cobra.Command{
		Use:   "gigen",
		Short: "Approximate model counting and near-uniform sampling for CNF formulas",
	}
	root.AddCommand(newCountCmd(), newSampleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gigen:", err)
		os.Exit(1)
	}
}
