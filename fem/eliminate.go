package fem

import (
	"fmt"
	"github.com/notargets/cstfem/band"
	"github.com/notargets/cstfem/model"
)

// Elimination is the result of pinning prescribed displacements in a copy of
// the stiffness matrix. It remembers the coupling terms moved to the right
// hand side so that any force vector can be turned into a right hand side
// without touching the matrix again.
type Elimination struct {
	// Matrix is the rearranged stiffness: every fixed or orphan DOF has a
	// unit diagonal and zeros elsewhere in its row and column.
	Matrix *band.Matrix

	fixed  model.Vector
	lift   []float64 // -Σ u_p·K[i,p] over fixed p
	orphan []bool    // DOFs with an empty stiffness row, pinned at zero
}

// Eliminate copies K and pins every DOF with a known displacement. Nodes are
// processed in ascending order, x before y. K itself is not modified.
func Eliminate(K *band.Matrix, displacements model.Vector) (*Elimination, error) {
	n := K.Size()
	if len(displacements) != n {
		return nil, fmt.Errorf("eliminate %d displacements in %d×%d matrix: %w",
			len(displacements), n, n, band.ErrShape)
	}
	e := &Elimination{
		Matrix: K.Clone(),
		fixed:  displacements.Clone(),
		lift:   make([]float64, n),
		orphan: make([]bool, n),
	}
	r := e.Matrix

	for id := 1; id <= n/2; id++ {
		for _, axis := range model.Axes {
			p := model.DOF(id, axis)
			u, fixed := displacements[p].Get()
			if !fixed {
				continue
			}
			first, last := r.Row(p)
			for i := first; i <= last; i++ {
				if i == p {
					continue
				}
				kip, err := r.Get(i, p)
				if err != nil {
					return nil, err
				}
				if kip == 0 {
					continue
				}
				e.lift[i] -= u * kip
				if err = r.Set(i, p, 0); err != nil {
					return nil, err
				}
			}
			if err := r.Set(p, p, 1); err != nil {
				return nil, err
			}
		}
	}

	// DOFs of nodes that no element references carry no stiffness at all
	for i := 0; i < n; i++ {
		if displacements[i].IsKnown() || !emptyRow(r, i) {
			continue
		}
		e.orphan[i] = true
		if err := r.Set(i, i, 1); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func emptyRow(m *band.Matrix, i int) bool {
	first, last := m.Row(i)
	for j := first; j <= last; j++ {
		if m.At(i, j) != 0 {
			return false
		}
	}
	return true
}

// RHS builds the right hand side for a force vector: prescribed values at
// fixed DOFs, zero at orphan DOFs, and the applied force (unset counts as 0)
// plus the eliminated coupling everywhere else.
func (e *Elimination) RHS(forces model.Vector) ([]float64, error) {
	n := len(e.fixed)
	if len(forces) != n {
		return nil, fmt.Errorf("force vector length %d, want %d: %w", len(forces), n, band.ErrShape)
	}
	rhs := make([]float64, n)
	for i := range rhs {
		switch u, fixed := e.fixed[i].Get(); {
		case fixed:
			rhs[i] = u
		case e.orphan[i]:
			rhs[i] = 0
		default:
			rhs[i] = forces[i].Or(0) + e.lift[i]
		}
	}
	return rhs, nil
}

// Orphans returns the DOFs pinned because no element couples them
func (e *Elimination) Orphans() (dofs []int) {
	for i, o := range e.orphan {
		if o {
			dofs = append(dofs, i)
		}
	}
	return
}

func (e *Elimination) clone() *Elimination {
	return &Elimination{
		Matrix: e.Matrix.Clone(),
		fixed:  e.fixed.Clone(),
		lift:   append([]float64(nil), e.lift...),
		orphan: append([]bool(nil), e.orphan...),
	}
}
