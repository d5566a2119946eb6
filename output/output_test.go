package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/linsolve"
	"github.com/notargets/cstfem/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"os"
	"path/filepath"
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
F 3 y -1`

func solvedSquare(t *testing.T) *fem.Solver {
	t.Helper()
	cfg := fem.DefaultConfig()
	cfg.Loader = loader.Config{ZoomX: 1, ZoomY: 1}
	cfg.Material.YoungsModulus, cfg.Material.PoissonRatio, cfg.Material.Thickness = 1, 0, 1
	cfg.Solver.Method = linsolve.Cholesky
	s, err := fem.Build(squareText, cfg)
	require.NoError(t, err)
	_, err = s.SolveModelLoads()
	require.NoError(t, err)
	return s
}

func TestRecords(t *testing.T) {
	recs, err := Records(solvedSquare(t))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Len(t, recs[0], 3)

	r := recs[0][2] // element 1, corner node 3
	assert.Equal(t, 3, r.ID)
	assert.InDelta(t, 4.0/7, r.XD, 1e-8)
	assert.InDelta(t, -20.0/7, r.YD, 1e-8)
	assert.InDelta(t, -1.0, r.YForce, 1e-8)
	assert.False(t, r.XFixed)
	assert.Equal(t, 1.0, r.X)
	assert.Equal(t, 1.0, r.Y)
	assert.InDelta(t, -12.0/7, r.DeltaY, 1e-8)

	fixed := recs[1][2] // element 2, corner node 4
	assert.Equal(t, 4, fixed.ID)
	assert.True(t, fixed.XFixed)
	assert.True(t, fixed.YFixed)
	assert.Equal(t, 0.0, fixed.XD)

	// element values repeat on every corner
	for _, c := range recs[1] {
		assert.Equal(t, recs[1][0].DeltaArea, c.DeltaArea)
		assert.Equal(t, recs[1][0].DeltaX, c.DeltaX)
	}
}

func TestRecordsUnsolved(t *testing.T) {
	cfg := fem.DefaultConfig()
	s, err := fem.Build(squareText, cfg)
	require.NoError(t, err)
	_, err = Records(s)
	assert.ErrorIs(t, err, fem.ErrState)
	assert.ErrorIs(t, PlotDeformed(filepath.Join(t.TempDir(), "x.png"), s, 1), fem.ErrState)
}

func TestWriteJSON(t *testing.T) {
	recs, err := Records(solvedSquare(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, recs))

	var raw [][]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 2)
	first := raw[0][0]
	for _, key := range Header {
		assert.Contains(t, first, key)
	}
	assert.Len(t, first, len(Header))
	assert.Equal(t, 1.0, first["id"])
	assert.Equal(t, true, first["x_fixed"])
}

func TestWriteCSV(t *testing.T) {
	recs, err := Records(solvedSquare(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, append([]string{"element"}, Header...), rows[0])
	assert.Equal(t, []string{"2", "4"}, rows[6][:2])
	assert.Equal(t, "true", rows[6][6])
}

func TestWriteXLSX(t *testing.T) {
	recs, err := Records(solvedSquare(t))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "square.xlsx")
	require.NoError(t, WriteXLSX(path, recs))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "element", rows[0][0])
	assert.Equal(t, "deltaArea", rows[0][len(Header)])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "3", rows[3][1])
}

func TestPlotDeformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.png")
	require.NoError(t, PlotDeformed(path, solvedSquare(t), 0.1))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
