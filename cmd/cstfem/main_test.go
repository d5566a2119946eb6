package main

import (
	"bytes"
	"encoding/json"
	"github.com/notargets/cstfem/fem"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const squareText = `N 1 0 0
N 2 1 0
N 3 1 1
N 4 0 1
E 1 1 2 3
E 2 1 3 4
D 1 x 0
D 1 y 0
D 4 x 0
D 4 y 0
F 3 y -1
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "square.txt")
	require.NoError(t, os.WriteFile(path, []byte(squareText), 0o644))
	return path
}

// resetFlags restores every flag variable to its default, since cobra keeps
// the values of the previous Execute in the package variables.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue), f.Name)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(t, sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	settings = fem.DefaultConfig()
	resetFlags(t, rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSolveJSON(t *testing.T) {
	out, err := run(t, "solve", writeModel(t))
	require.NoError(t, err)
	var recs [][]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Len(t, recs[0], 3)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	_, err := run(t, "solve", writeModel(t), "-v", "--method", "cholesky", "--format", "csv",
		"--out", csvPath, "--max-iter", "1")
	require.NoError(t, err)
	_, err = os.Stat(csvPath)
	require.NoError(t, err)

	// defaults again: JSON to stdout, CG with its full iteration cap, no log
	out, err := run(t, "solve", writeModel(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "["), out)
	assert.NotContains(t, out, "level=DEBUG")
	assert.Equal(t, "cg", method)
	assert.Equal(t, fem.DefaultConfig().Solver.MaxIterations, settings.Solver.MaxIterations)
	assert.Nil(t, settings.Logger)
}

func TestMethodHelpPointsToCholesky(t *testing.T) {
	for _, name := range []string{"method", "max-iter"} {
		f := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Contains(t, f.Usage, "cholesky", name)
	}
}

func TestSolveSummaryCholesky(t *testing.T) {
	out, err := run(t, "solve", writeModel(t), "--method", "cholesky", "--format", "summary", "--out", "")
	require.NoError(t, err)
	assert.Contains(t, out, "CST")
	assert.Contains(t, out, "node    3")
}

func TestTiltXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilt.xlsx")
	_, err := run(t, "tilt", writeModel(t), "--method", "cg", "--beta", "30", "--element", "E1",
		"--format", "xlsx", "--out", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSweep(t *testing.T) {
	out, err := run(t, "sweep", writeModel(t), "--method", "cg", "--from", "-90", "--to", "90",
		"--steps", "3", "--workers", "2", "--strategy", "round-robin")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "beta=-90")
	assert.Contains(t, lines[2], "beta=0")
	assert.Contains(t, lines[3], "beta=90")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", writeModel(t), "2", "--method", "cg")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes [1 3 4]")
	assert.Contains(t, out, "Ke_CST")

	_, err = run(t, "inspect", writeModel(t), "9", "--method", "cg")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "solve", writeModel(t), "--method", "lu")
	assert.Error(t, err)

	_, err = run(t, "convert", filepath.Join(t.TempDir(), "missing.neu"), "--method", "cg", "--out", "")
	assert.Error(t, err)

	_, err = run(t, "solve", filepath.Join(t.TempDir(), "missing.txt"), "--method", "cg")
	assert.Error(t, err)
}
