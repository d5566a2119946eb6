package element

import "errors"

var (
	ErrDegenerate = errors.New("element: degenerate triangle")
	ErrMaterial   = errors.New("element: invalid material")
)

// ElementProperties contains metadata describing an element type
type ElementProperties struct {
	Name       string // Full descriptive name
	ShortName  string // Abbreviated name used in matrix labels
	Np         int    // Number of corner nodes
	DOFPerNode int    // Displacement components per node
	NStrain    int    // Number of strain components (εx, εy, γxy)
}

// Properties returns the description of the constant strain triangle
func Properties() ElementProperties {
	return ElementProperties{
		Name:       "Constant Strain Triangle",
		ShortName:  "CST",
		Np:         3,
		DOFPerNode: 2,
		NStrain:    3,
	}
}

// NDOF is the number of element degrees of freedom (u1,v1,u2,v2,u3,v3)
const NDOF = 6
