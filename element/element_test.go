package element

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func corners(xy ...float64) [3]Corner {
	return [3]Corner{
		{NodeID: 1, X: xy[0], Y: xy[1]},
		{NodeID: 2, X: xy[2], Y: xy[3]},
		{NodeID: 3, X: xy[4], Y: xy[5]},
	}
}

func TestTriangleArea(t *testing.T) {
	tests := []struct {
		name string
		xy   []float64
		area float64
	}{
		{"right triangle 3-4-5", []float64{0, 0, 4, 0, 0, 3}, 6.0},
		{"clockwise order", []float64{0, 0, 0, 3, 4, 0}, 6.0},
		{"unit", []float64{0, 0, 1, 0, 1, 1}, 0.5},
		{"translated", []float64{10, 10, 12, 10, 10, 11}, 1.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tri, err := NewTriangle(1, corners(tc.xy...))
			require.NoError(t, err)
			assert.Equal(t, tc.area, tri.Area())
		})
	}
}

func TestTriangleDegenerate(t *testing.T) {
	_, err := NewTriangle(7, corners(0, 0, 1, 1, 2, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerate))
	assert.Contains(t, err.Error(), "element 7")

	_, err = NewTriangle(8, corners(0, 0, math.NaN(), 1, 2, 0))
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestNodeSpan(t *testing.T) {
	tri, err := NewTriangle(1, [3]Corner{{NodeID: 5}, {NodeID: 2, X: 1}, {NodeID: 9, Y: 1}})
	require.NoError(t, err)
	min, max := tri.NodeSpan()
	assert.Equal(t, 2, min)
	assert.Equal(t, 9, max)
	assert.Equal(t, [3]int{5, 2, 9}, tri.NodeIDs())
}

func TestDeltaArea(t *testing.T) {
	tri, err := NewTriangle(1, corners(0, 0, 1, 0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 0.0, tri.DeltaArea([3]float64{}, [3]float64{}))

	// stretch x by 10%: area grows by 100 per-mille
	d := tri.DeltaArea([3]float64{0, 0.1, 0}, [3]float64{})
	assert.InDelta(t, 100.0, d, 1e-9)

	// rigid translation leaves the area unchanged
	d = tri.DeltaArea([3]float64{3, 3, 3}, [3]float64{-2, -2, -2})
	assert.InDelta(t, 0.0, d, 1e-9)
}

func TestMaterialValidate(t *testing.T) {
	assert.NoError(t, DefaultMaterial().Validate())

	bad := []Material{
		{Thickness: 0, PoissonRatio: 0.2, YoungsModulus: 1},
		{Thickness: 1, PoissonRatio: 0.5, YoungsModulus: 1},
		{Thickness: 1, PoissonRatio: -1, YoungsModulus: 1},
		{Thickness: 1, PoissonRatio: 0.2, YoungsModulus: -3},
		{Thickness: math.Inf(1), PoissonRatio: 0.2, YoungsModulus: 1},
	}
	for _, m := range bad {
		assert.ErrorIs(t, m.Validate(), ErrMaterial, "%+v", m)
	}
	_, err := NewFormulator(bad[0])
	assert.ErrorIs(t, err, ErrMaterial)
}

func TestElasticityCoefficients(t *testing.T) {
	m := Material{Thickness: 1, PoissonRatio: 0.25, YoungsModulus: 1000}
	D := m.Elasticity()

	factor := 1000 / 1.25 / 0.5
	expected := []float64{
		0.75 * factor, 0.25 * factor, 0,
		0.25 * factor, 0.75 * factor, 0,
		0, 0, 0.25 * factor,
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, expected[i*3+j], D.At(i, j), 1e-9, "D[%d][%d]", i, j)
		}
	}
}

// With E=1, ν=0 and t=1 the stiffness of the unit right triangle is known in
// closed form.
func TestStiffnessUnitRightTriangle(t *testing.T) {
	f, err := NewFormulator(Material{Thickness: 1, PoissonRatio: 0, YoungsModulus: 1})
	require.NoError(t, err)
	tri, err := NewTriangle(1, corners(0, 0, 1, 0, 0, 1))
	require.NoError(t, err)

	expected := mat.NewSymDense(6, []float64{
		0.75, 0.25, -0.5, -0.25, -0.25, 0,
		0.25, 0.75, 0, -0.25, -0.25, -0.5,
		-0.5, 0, 0.5, 0, 0, 0,
		-0.25, -0.25, 0, 0.25, 0.25, 0,
		-0.25, -0.25, 0, 0.25, 0.25, 0,
		0, -0.5, 0, 0, 0, 0.5,
	})
	Ke := f.Stiffness(tri)
	assert.True(t, mat.EqualApprox(expected, Ke, 1e-14), "Ke =\n%v", mat.Formatted(Ke))
}

func TestStiffnessRigidBodyModes(t *testing.T) {
	f, err := NewFormulator(DefaultMaterial())
	require.NoError(t, err)
	tri, err := NewTriangle(3, corners(0.3, -1.2, 4.1, 0.7, -0.5, 2.9))
	require.NoError(t, err)
	Ke := f.Stiffness(tri)

	// translations in x and y and an infinitesimal rotation produce no force
	c := tri.Corners
	modes := [][]float64{
		{1, 0, 1, 0, 1, 0},
		{0, 1, 0, 1, 0, 1},
		{-c[0].Y, c[0].X, -c[1].Y, c[1].X, -c[2].Y, c[2].X},
	}
	scale := mat.Max(Ke)
	for i, m := range modes {
		var force mat.VecDense
		force.MulVec(Ke, mat.NewVecDense(6, m))
		for j := 0; j < 6; j++ {
			assert.InDelta(t, 0, force.AtVec(j)/scale, 1e-12, "mode %d dof %d", i, j)
		}
	}
}

func TestStiffnessScaleInvariant(t *testing.T) {
	f, err := NewFormulator(DefaultMaterial())
	require.NoError(t, err)
	small, err := NewTriangle(1, corners(0, 0, 1, 0.2, 0.4, 1))
	require.NoError(t, err)
	large, err := NewTriangle(1, corners(0, 0, 2.3, -0.46, 0.92, -2.3))
	require.NoError(t, err)

	// uniform scaling (with a mirror) leaves the CST stiffness unchanged in
	// magnitude on the diagonal
	for i := 0; i < 6; i++ {
		assert.InEpsilon(t, f.Stiffness(small).At(i, i), f.Stiffness(large).At(i, i), 1e-12)
	}
}

func TestFormatMatrices(t *testing.T) {
	f, err := NewFormulator(DefaultMaterial())
	require.NoError(t, err)
	tri, err := NewTriangle(4, corners(0, 0, 4, 0, 0, 3))
	require.NoError(t, err)

	s := f.FormatMatrices(tri)
	assert.Contains(t, s, "Element 4")
	assert.Contains(t, s, "B_CST[6][3]")
	assert.Contains(t, s, "D_CST[3][3]")
	assert.Contains(t, s, "Ke_CST[6][6]")
	assert.Len(t, f.Matrices(tri), 3)
}

func TestProperties(t *testing.T) {
	p := Properties()
	assert.Equal(t, "CST", p.ShortName)
	assert.Equal(t, NDOF, p.Np*p.DOFPerNode)
	assert.Equal(t, 3, p.NStrain)
}
