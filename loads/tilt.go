// Package loads builds force vectors for a solved or solvable model
package loads

import (
	"fmt"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/model"
	"math"
)

const (
	// SelectedFactor scales the load on the element the user picked
	SelectedFactor = 50.0
	// BackgroundFactor scales the load on all other elements
	BackgroundFactor = 1e-8
)

// Tilt distributes a body load derived from device tilt angles (degrees)
// over the elements. Each element adds factor·f·area to every corner DOF
// that is not fixed, with fy = 2·sin(-beta) and fx = 2·sin(-gamma). The
// element named selected ("E<id>") gets SelectedFactor unless gravity is on;
// every other element gets BackgroundFactor. Fixed DOFs stay at zero.
func Tilt(s *fem.Solver, beta, gamma float64, gravity bool, selected string) model.Vector {
	m := s.Model
	yForce := 2 * math.Sin(-beta/180*math.Pi)
	xForce := 2 * math.Sin(-gamma/180*math.Pi)

	acc := make([]float64, m.NumDOF())
	for _, t := range m.Elements {
		factor := BackgroundFactor
		if ElementName(t.ID) == selected && !gravity {
			factor = SelectedFactor
		}
		fx, fy := xForce*factor*t.Area(), yForce*factor*t.Area()
		for _, c := range t.Corners {
			if !m.IsFixed(c.NodeID, model.Y) {
				acc[model.DOFY(c.NodeID)] += fy
			}
			if !m.IsFixed(c.NodeID, model.X) {
				acc[model.DOFX(c.NodeID)] += fx
			}
		}
	}
	return model.KnownVector(acc)
}

// ElementName is the label a client uses to select an element
func ElementName(id int) string { return fmt.Sprintf("E%d", id) }
