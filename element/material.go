package element

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"math"
)

// Material holds the global, immutable elastic constants of a model
type Material struct {
	Thickness     float64 // Thickness of the 2D structure in mm
	PoissonRatio  float64 // Poisson's ratio ν
	YoungsModulus float64 // Young's modulus E in N/mm^2
}

// DefaultMaterial returns the constants of the reference structure
func DefaultMaterial() Material {
	return Material{
		Thickness:     10.0,
		PoissonRatio:  0.2,
		YoungsModulus: 1.6e+05,
	}
}

// Validate rejects constants for which the elasticity matrix is singular,
// infinite or physically meaningless.
func (m Material) Validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(m.Thickness) || m.Thickness <= 0:
		return fmt.Errorf("thickness %g must be positive: %w", m.Thickness, ErrMaterial)
	case !finite(m.YoungsModulus) || m.YoungsModulus <= 0:
		return fmt.Errorf("young's modulus %g must be positive: %w", m.YoungsModulus, ErrMaterial)
	case !finite(m.PoissonRatio) || m.PoissonRatio <= -1 || m.PoissonRatio >= 0.5:
		return fmt.Errorf("poisson ratio %g must lie in (-1, 0.5): %w", m.PoissonRatio, ErrMaterial)
	}
	return nil
}

// Elasticity returns the 3×3 matrix D relating strains (εx, εy, γxy) to stresses
//
//	factor = E / (1+ν) / (1-2ν)
//	D = factor * | 1-ν   ν      0      |
//	             | ν     1-ν    0      |
//	             | 0     0   (1-2ν)/2  |
func (m Material) Elasticity() *mat.SymDense {
	var (
		nu     = m.PoissonRatio
		factor = m.YoungsModulus / (1 + nu) / (1 - 2*nu)
	)
	return mat.NewSymDense(3, []float64{
		(1 - nu) * factor, nu * factor, 0,
		nu * factor, (1 - nu) * factor, 0,
		0, 0, (1 - 2*nu) / 2 * factor,
	})
}
