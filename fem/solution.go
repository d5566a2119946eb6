package fem

import (
	"fmt"
	"github.com/notargets/cstfem/element"
	"github.com/notargets/cstfem/model"
)

// Solution is the result of one Solve. Displacements and Forces are indexed
// by DOF; Forces include the reactions at fixed DOFs.
type Solution struct {
	Displacements []float64
	Forces        []float64
	Iterations    int
	Residual      float64

	model *model.Model
}

// Displacement returns the displacement of a node along an axis. It panics
// if the node is out of range; see Lookup.
func (sol *Solution) Displacement(id int, axis model.Axis) float64 {
	return sol.Displacements[model.DOF(id, axis)]
}

// Force returns the nodal force of a node along an axis. It panics if the
// node is out of range; see Lookup.
func (sol *Solution) Force(id int, axis model.Axis) float64 {
	return sol.Forces[model.DOF(id, axis)]
}

// Lookup returns the displacement and nodal force of a node along an axis,
// with ok false for a node outside the model.
func (sol *Solution) Lookup(id int, axis model.Axis) (u, f float64, ok bool) {
	dof := model.DOF(id, axis)
	if id < 1 || dof >= len(sol.Displacements) {
		return 0, 0, false
	}
	return sol.Displacements[dof], sol.Forces[dof], true
}

// CornerDisplacements returns the displacements of an element's corners in
// element order.
func (sol *Solution) CornerDisplacements(t element.Triangle) (dx, dy [3]float64) {
	for k, c := range t.Corners {
		dx[k] = sol.Displacement(c.NodeID, model.X)
		dy[k] = sol.Displacement(c.NodeID, model.Y)
	}
	return
}

// MeanDisplacements returns, per element in ID order, the mean x and mean y
// displacement of its corners: [x0, y0, x1, y1, ...]
func (sol *Solution) MeanDisplacements() []float64 {
	out := make([]float64, 2*sol.model.NumElements())
	for k, t := range sol.model.Elements {
		dx, dy := sol.CornerDisplacements(t)
		out[2*k] = (dx[0] + dx[1] + dx[2]) / 3
		out[2*k+1] = (dy[0] + dy[1] + dy[2]) / 3
	}
	return out
}

// DeltaArea returns the per-mille area change of an element
func (sol *Solution) DeltaArea(elementID int) (float64, error) {
	t, ok := sol.model.Element(elementID)
	if !ok {
		return 0, fmt.Errorf("element %d: %w", elementID, model.ErrInvalid)
	}
	dx, dy := sol.CornerDisplacements(t)
	return t.DeltaArea(dx, dy), nil
}

// Resultant returns the sum of all nodal forces per axis. For any solution
// of a supported structure it is zero up to round-off.
func (sol *Solution) Resultant() (fx, fy float64) {
	for dof, f := range sol.Forces {
		if dof%2 == 0 {
			fx += f
		} else {
			fy += f
		}
	}
	return
}
