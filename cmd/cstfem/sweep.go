package main

import (
	"fmt"
	"github.com/notargets/cstfem/batch"
	"github.com/notargets/cstfem/loads"
	"github.com/spf13/cobra"
	"math"
	"text/tabwriter"
)

var (
	sweepFrom, sweepTo float64
	sweepSteps         int
	workers            int
	strategy           string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <model>",
	Short: "Solve a range of tilt angles in parallel",
	Long: `Sweep the front-back tilt angle from --from to --to in --steps
equal steps with gravity loading and print the largest displacement
magnitude of each case.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepSteps < 1 {
			return fmt.Errorf("steps must be positive, got %d", sweepSteps)
		}
		st, err := batch.ParseStrategy(strategy)
		if err != nil {
			return err
		}
		s, err := buildSolver(args[0])
		if err != nil {
			return err
		}

		angles := make([]float64, sweepSteps)
		cases := make([]batch.Case, sweepSteps)
		for k := range cases {
			angles[k] = sweepFrom
			if sweepSteps > 1 {
				angles[k] += (sweepTo - sweepFrom) * float64(k) / float64(sweepSteps-1)
			}
			cases[k] = batch.Case{
				Name:   fmt.Sprintf("beta=%g", angles[k]),
				Forces: loads.Tilt(s, angles[k], gamma, true, ""),
			}
		}

		results, err := batch.Run(cmd.Context(), s, cases,
			batch.Config{Workers: workers, Strategy: st, Logger: settings.Logger})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "case\tbeta\tmax |d|\titerations")
		for k, r := range results {
			if r.Err != nil {
				fmt.Fprintf(tw, "%s\t%g\terror: %v\t\n", r.Case, angles[k], r.Err)
				continue
			}
			var maxD float64
			d := r.Solution.Displacements
			for i := 0; i+1 < len(d); i += 2 {
				maxD = math.Max(maxD, math.Hypot(d[i], d[i+1]))
			}
			fmt.Fprintf(tw, "%s\t%g\t%.6e\t%d\n", r.Case, angles[k], maxD, r.Solution.Iterations)
		}
		return tw.Flush()
	},
}

func init() {
	def := batch.DefaultConfig()
	f := sweepCmd.Flags()
	f.Float64Var(&sweepFrom, "from", -90, "first tilt angle in degrees")
	f.Float64Var(&sweepTo, "to", 90, "last tilt angle in degrees")
	f.IntVar(&sweepSteps, "steps", 19, "number of angles")
	f.Float64Var(&gamma, "gamma", 0, "left-right tilt in degrees")
	f.IntVar(&workers, "workers", def.Workers, "parallel solvers")
	f.StringVar(&strategy, "strategy", def.Strategy.String(), "case distribution: block or round-robin")
	rootCmd.AddCommand(sweepCmd)
}
