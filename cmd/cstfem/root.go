package main

import (
	"fmt"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/linsolve"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
	"os"
)

var (
	verbose  bool
	method   string
	settings = fem.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "cstfem",
	Short: "Plane stress analysis with constant strain triangles",
	Long: `Solve 2D linear-elastic structures meshed with constant strain
triangles.

A model is a text file of records:
  N <id> <x> <y>          node
  E <id> <n1> <n2> <n3>   element
  D <id> <x|y> <value>    prescribed displacement
  F <id> <x|y> <value>    applied force

Node coordinates are multiplied by --zoom-x and --zoom-y on input.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		m, err := linsolve.ParseMethod(method)
		if err != nil {
			return err
		}
		settings.Solver.Method = m
		if verbose {
			settings.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
				&slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log build and solve steps to stderr")
	pf.StringVar(&method, "method", settings.Solver.Method.String(), "linear solver: cg or cholesky (use cholesky on meshes of more than a few hundred nodes)")
	pf.IntVar(&settings.Solver.MaxIterations, "max-iter", settings.Solver.MaxIterations, "conjugate gradient iteration cap; larger meshes may not converge within it, use --method cholesky")
	pf.Float64Var(&settings.Solver.Tolerance, "tol", settings.Solver.Tolerance, "relative residual tolerance")
	pf.Float64Var(&settings.Material.YoungsModulus, "youngs-modulus", settings.Material.YoungsModulus, "Young's modulus E")
	pf.Float64Var(&settings.Material.PoissonRatio, "poisson", settings.Material.PoissonRatio, "Poisson ratio")
	pf.Float64Var(&settings.Material.Thickness, "thickness", settings.Material.Thickness, "plate thickness")
	pf.Float64Var(&settings.Loader.ZoomX, "zoom-x", settings.Loader.ZoomX, "x coordinate scale")
	pf.Float64Var(&settings.Loader.ZoomY, "zoom-y", settings.Loader.ZoomY, "y coordinate scale")
}

// buildSolver reads a model file and prepares it for solving
func buildSolver(path string) (*fem.Solver, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := fem.Build(string(text), settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// outputWriter returns stdout when path is empty
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
