package main

import (
	"fmt"
	"github.com/notargets/cstfem/element"
	"github.com/notargets/cstfem/loader"
	"github.com/notargets/cstfem/output"
	"github.com/spf13/cobra"
	"strconv"
)

var plotScale float64

var plotCmd = &cobra.Command{
	Use:   "plot <model>",
	Short: "Draw the undeformed and deformed mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outPath == "" {
			return fmt.Errorf("plot needs --out")
		}
		s, err := buildSolver(args[0])
		if err != nil {
			return err
		}
		if _, err = s.SolveModelLoads(); err != nil {
			return err
		}
		return output.PlotDeformed(outPath, s, plotScale)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <model> <elementID>",
	Short: "Print the strain-displacement, elasticity and stiffness matrices of an element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("element id %q: %w", args[1], err)
		}
		s, err := buildSolver(args[0])
		if err != nil {
			return err
		}
		t, ok := s.Model.Element(id)
		if !ok {
			return fmt.Errorf("no element %d in %s", id, args[0])
		}
		w := cmd.OutOrStdout()
		p := element.Properties()
		fmt.Fprintf(w, "%s %d: nodes %v, area %g, band width %d\n",
			p.ShortName, t.ID, t.NodeIDs(), t.Area(), s.Model.BandWidth)
		fmt.Fprint(w, s.Formulator().FormatMatrices(t))
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <meshfile>",
	Short: "Turn the triangles of a mesh file into a model",
	Long: `Read a mesh file and write its triangular cells as model text.
Other cell shapes are skipped. The output has no displacement or force
records; coordinates are divided by the zoom factors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, skipped, err := loader.ImportMesh(args[0])
		if err != nil {
			return err
		}
		if settings.Logger != nil {
			settings.Logger.Info("mesh imported", "nodes", m.NumNodes(),
				"triangles", m.NumElements(), "skipped", skipped)
		}
		w, closeFn, err := outputWriter(cmd, outPath)
		if err != nil {
			return err
		}
		err = loader.Write(w, m, settings.Loader)
		if cerr := closeFn(); err == nil {
			err = cerr
		}
		return err
	},
}

func init() {
	plotCmd.Flags().StringVarP(&outPath, "out", "o", "", "image file (.png, .svg, .pdf)")
	plotCmd.Flags().Float64Var(&plotScale, "scale", 1, "displacement magnification")
	convertCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(plotCmd, inspectCmd, convertCmd)
}
