package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAccumulateAndGet(t *testing.T) {
	m := NewMatrix(6, 3)
	assert.Equal(t, 6, m.Size())
	assert.Equal(t, 3, m.BandWidth())

	require.NoError(t, m.Accumulate(1, 3, 2.5))
	require.NoError(t, m.Accumulate(3, 1, 0.5))

	v, err := m.Get(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	v, err = m.Get(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v, "storage is symmetric")

	require.NoError(t, m.Set(2, 2, -1))
	assert.Equal(t, []float64{0, 0, -1, 0, 0, 0}, m.Diagonal())
}

func TestOutOfBand(t *testing.T) {
	m := NewMatrix(6, 3)

	err := m.Accumulate(0, 3, 1)
	assert.ErrorIs(t, err, ErrOutOfBand)
	_, err = m.Get(5, 2)
	assert.ErrorIs(t, err, ErrOutOfBand)
	assert.ErrorIs(t, m.Set(4, 0, 1), ErrOutOfBand)

	assert.ErrorIs(t, m.Accumulate(-1, 0, 1), ErrOutOfRange)
	_, err = m.Get(6, 6)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.True(t, m.InBand(0, 2))
	assert.False(t, m.InBand(0, 3))

	// nothing was written by the failed calls
	assert.True(t, mat.Equal(mat.NewDense(6, 6, nil), m.Dense()))
}

func TestNewMatrixPanics(t *testing.T) {
	assert.Panics(t, func() { NewMatrix(0, 2) })
	assert.Panics(t, func() { NewMatrix(4, 0) })
	assert.NotPanics(t, func() { NewMatrix(4, 10) })
}

func TestRow(t *testing.T) {
	m := NewMatrix(10, 4)
	first, last := m.Row(0)
	assert.Equal(t, 0, first)
	assert.Equal(t, 3, last)
	first, last = m.Row(5)
	assert.Equal(t, 2, first)
	assert.Equal(t, 8, last)
	first, last = m.Row(9)
	assert.Equal(t, 6, first)
	assert.Equal(t, 9, last)
}

func TestCloneIsDeep(t *testing.T) {
	m := NewMatrix(4, 2)
	require.NoError(t, m.Set(0, 1, 7))

	c := m.Clone()
	require.NoError(t, c.Set(0, 1, -3))
	require.NoError(t, c.Accumulate(3, 3, 1))

	v, _ := m.Get(0, 1)
	assert.Equal(t, 7.0, v)
	v, _ = m.Get(3, 3)
	assert.Equal(t, 0.0, v)
	v, _ = c.Get(1, 0)
	assert.Equal(t, -3.0, v)
	assert.Equal(t, m.BandWidth(), c.BandWidth())
}

func TestMulVec(t *testing.T) {
	// tridiagonal 2,-1 matrix
	n := 5
	m := NewMatrix(n, 2)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, 2))
		if i+1 < n {
			require.NoError(t, m.Set(i, i+1, -1))
		}
	}
	x := []float64{1, 2, 3, 4, 5}
	y, err := m.MulVec(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 6}, y, 1e-15)

	var ref mat.VecDense
	ref.MulVec(m.Dense(), mat.NewVecDense(n, x))
	assert.InDeltaSlice(t, ref.RawVector().Data, y, 1e-15)

	_, err = m.MulVec([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShape)
}

func TestMatrixInterface(t *testing.T) {
	m := NewMatrix(3, 3)
	require.NoError(t, m.Set(0, 2, 4))
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 4.0, m.T().At(2, 0))
	assert.True(t, mat.Equal(m, m.Dense()))
	assert.Equal(t, 3, m.SymmetricDim())
}
