package main

import (
	"fmt"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/loads"
	"github.com/notargets/cstfem/model"
	"github.com/notargets/cstfem/output"
	"github.com/spf13/cobra"
)

var (
	format  string
	outPath string

	beta, gamma float64
	gravity     bool
	selected    string
)

var solveCmd = &cobra.Command{
	Use:   "solve <model>",
	Short: "Solve a model with the forces it declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildSolver(args[0])
		if err != nil {
			return err
		}
		if _, err = s.SolveModelLoads(); err != nil {
			return err
		}
		return writeRecords(cmd, s)
	},
}

var tiltCmd = &cobra.Command{
	Use:   "tilt <model>",
	Short: "Solve a model under a body load from tilt angles",
	Long: `Replace the declared forces by a body load derived from two tilt
angles in degrees. The element given by --element (for example E3) carries
the full load unless --gravity is set; all other elements carry a
negligible one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildSolver(args[0])
		if err != nil {
			return err
		}
		if _, err = s.Solve(loads.Tilt(s, beta, gamma, gravity, selected)); err != nil {
			return err
		}
		return writeRecords(cmd, s)
	},
}

func writeRecords(cmd *cobra.Command, s *fem.Solver) error {
	recs, err := output.Records(s)
	if err != nil {
		return err
	}
	switch format {
	case "json", "csv":
		w, closeFn, err := outputWriter(cmd, outPath)
		if err != nil {
			return err
		}
		if format == "json" {
			err = output.WriteJSON(w, recs)
		} else {
			err = output.WriteCSV(w, recs)
		}
		if cerr := closeFn(); err == nil {
			err = cerr
		}
		return err
	case "xlsx":
		if outPath == "" {
			return fmt.Errorf("xlsx output needs --out")
		}
		return output.WriteXLSX(outPath, recs)
	case "summary":
		sol, _ := s.Solution()
		w := cmd.OutOrStdout()
		fmt.Fprint(w, s)
		for id := 1; id <= s.Model.NumNodes(); id++ {
			if _, ok := s.Model.Node(id); !ok {
				continue
			}
			fmt.Fprintf(w, "node %4d  u=% .6e  v=% .6e  fx=% .6e  fy=% .6e\n", id,
				sol.Displacement(id, model.X), sol.Displacement(id, model.Y),
				sol.Force(id, model.X), sol.Force(id, model.Y))
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func init() {
	for _, c := range []*cobra.Command{solveCmd, tiltCmd} {
		c.Flags().StringVarP(&format, "format", "f", "json", "json, csv, xlsx or summary")
		c.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
		rootCmd.AddCommand(c)
	}
	tiltCmd.Flags().Float64Var(&beta, "beta", 0, "front-back tilt in degrees")
	tiltCmd.Flags().Float64Var(&gamma, "gamma", 0, "left-right tilt in degrees")
	tiltCmd.Flags().BoolVar(&gravity, "gravity", false, "load all elements evenly")
	tiltCmd.Flags().StringVar(&selected, "element", "", "element to load, as E<id>")
}
