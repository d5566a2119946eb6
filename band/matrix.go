package band

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrOutOfBand  = errors.New("band: entry outside band")
	ErrOutOfRange = errors.New("band: index out of range")
	ErrShape      = errors.New("band: dimension mismatch")
)

var (
	_ mat.Matrix    = (*Matrix)(nil)
	_ mat.Symmetric = (*Matrix)(nil)
)

// Matrix is a square symmetric matrix holding only the entries with
// |row-col| < BandWidth. Storage is the upper band of a gonum SymBandDense:
// Size rows of BandWidth values each.
type Matrix struct {
	size      int
	bandWidth int
	sym       *mat.SymBandDense
}

// NewMatrix returns a zeroed band matrix. It panics on non-positive
// dimensions, like the gonum constructors it wraps.
func NewMatrix(size, bandWidth int) *Matrix {
	if size <= 0 || bandWidth <= 0 {
		panic(fmt.Sprintf("band: invalid dimensions size=%d bandWidth=%d", size, bandWidth))
	}
	// entries beyond the matrix edge can never be addressed
	k := bandWidth - 1
	if k > size-1 {
		k = size - 1
	}
	return &Matrix{
		size:      size,
		bandWidth: bandWidth,
		sym:       mat.NewSymBandDense(size, k, nil),
	}
}

// Clone returns a deep copy of the band storage
func (m *Matrix) Clone() *Matrix {
	raw := m.sym.RawSymBand()
	data := make([]float64, len(raw.Data))
	copy(data, raw.Data)
	return &Matrix{
		size:      m.size,
		bandWidth: m.bandWidth,
		sym:       mat.NewSymBandDense(raw.N, raw.K, data),
	}
}

// Size returns the number of rows (and columns)
func (m *Matrix) Size() int { return m.size }

// BandWidth returns w, entries with |row-col| < w are stored
func (m *Matrix) BandWidth() int { return m.bandWidth }

func (m *Matrix) check(row, col int) error {
	if row < 0 || row >= m.size || col < 0 || col >= m.size {
		return fmt.Errorf("(%d,%d) in %d×%d matrix: %w", row, col, m.size, m.size, ErrOutOfRange)
	}
	if d := row - col; d >= m.bandWidth || -d >= m.bandWidth {
		return fmt.Errorf("(%d,%d) distance %d with band width %d: %w",
			row, col, abs(d), m.bandWidth, ErrOutOfBand)
	}
	return nil
}

// InBand reports whether (row, col) is addressable
func (m *Matrix) InBand(row, col int) bool { return m.check(row, col) == nil }

// Get returns the entry at (row, col). Entries outside the band are an error,
// not an implicit zero.
func (m *Matrix) Get(row, col int) (float64, error) {
	if err := m.check(row, col); err != nil {
		return 0, err
	}
	return m.sym.At(row, col), nil
}

// Set overwrites the entry at (row, col) and its mirror
func (m *Matrix) Set(row, col int, v float64) error {
	if err := m.check(row, col); err != nil {
		return err
	}
	m.setUpper(row, col, v)
	return nil
}

// Accumulate adds delta to the entry at (row, col) and its mirror
func (m *Matrix) Accumulate(row, col int, delta float64) error {
	if err := m.check(row, col); err != nil {
		return err
	}
	m.setUpper(row, col, m.sym.At(row, col)+delta)
	return nil
}

// setUpper writes through the upper triangle, which is all the band stores
func (m *Matrix) setUpper(row, col int, v float64) {
	if row > col {
		row, col = col, row
	}
	m.sym.SetSymBand(row, col, v)
}

// Row returns the first and last column stored for a row
func (m *Matrix) Row(row int) (first, last int) {
	first, last = row-m.bandWidth+1, row+m.bandWidth-1
	if first < 0 {
		first = 0
	}
	if last > m.size-1 {
		last = m.size - 1
	}
	return
}

// Diagonal returns a copy of the main diagonal
func (m *Matrix) Diagonal() []float64 {
	d := make([]float64, m.size)
	for i := range d {
		d[i] = m.sym.At(i, i)
	}
	return d
}

// MulVecTo computes dst = M·x. Entries outside the band contribute zero.
func (m *Matrix) MulVecTo(dst, x []float64) error {
	if len(x) != m.size || len(dst) != m.size {
		return fmt.Errorf("multiply %d×%d by %d into %d: %w", m.size, m.size, len(x), len(dst), ErrShape)
	}
	out := mat.NewVecDense(m.size, dst)
	out.MulVec(m.sym, mat.NewVecDense(m.size, x))
	return nil
}

// MulVec returns M·x
func (m *Matrix) MulVec(x []float64) ([]float64, error) {
	dst := make([]float64, m.size)
	if err := m.MulVecTo(dst, x); err != nil {
		return nil, err
	}
	return dst, nil
}

// Dense expands the band into a full matrix
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.size, m.size, nil)
	d.Copy(m.sym)
	return d
}

// SymBand exposes the gonum storage for factorizations
func (m *Matrix) SymBand() *mat.SymBandDense { return m.sym }

// mat.Matrix and mat.Symmetric

func (m *Matrix) Dims() (r, c int)    { return m.size, m.size }
func (m *Matrix) At(i, j int) float64 { return m.sym.At(i, j) }
func (m *Matrix) T() mat.Matrix       { return m }
func (m *Matrix) SymmetricDim() int   { return m.size }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
