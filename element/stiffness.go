package element

import (
	"gonum.org/v1/gonum/mat"
)

// Formulator computes element matrices for one material. D is built once and
// shared by every element of the model.
type Formulator struct {
	Material Material
	D        *mat.SymDense // [3 × 3] elasticity matrix
}

// NewFormulator validates the material and precomputes its elasticity matrix
func NewFormulator(m Material) (*Formulator, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Formulator{Material: m, D: m.Elasticity()}, nil
}

// StrainDisplacement returns the [6 × 3] matrix B mapping the element DOFs
// (u1, v1, u2, v2, u3, v3) onto the constant strains (εx, εy, γxy).
// Rows are DOFs, columns are strain components.
func (t Triangle) StrainDisplacement() *mat.Dense {
	var (
		c      = t.Corners
		twoA   = 2 * t.area
		b1, b2 = c[1].Y - c[2].Y, c[2].Y - c[0].Y
		b3     = c[0].Y - c[1].Y
		c1, c2 = c[2].X - c[1].X, c[0].X - c[2].X
		c3     = c[1].X - c[0].X
	)
	B := mat.NewDense(NDOF, 3, []float64{
		b1, 0, c1,
		0, c1, b1,
		b2, 0, c2,
		0, c2, b2,
		b3, 0, c3,
		0, c3, b3,
	})
	B.Scale(1/twoA, B)
	return B
}

// Stiffness returns the [6 × 6] element stiffness Ke = area·t·B·D·Bᵀ.
// DOF order matches StrainDisplacement.
func (f *Formulator) Stiffness(t Triangle) *mat.SymDense {
	B := t.StrainDisplacement()

	var BD, K mat.Dense
	BD.Mul(B, f.D)
	K.Mul(&BD, B.T())

	volume := t.area * f.Material.Thickness
	Ke := mat.NewSymDense(NDOF, nil)
	for i := 0; i < NDOF; i++ {
		for j := i; j < NDOF; j++ {
			// both triangles hold the same value up to rounding
			Ke.SetSym(i, j, volume*0.5*(K.At(i, j)+K.At(j, i)))
		}
	}
	return Ke
}
