package fem

import (
	"fmt"
	"github.com/notargets/cstfem/band"
	"github.com/notargets/cstfem/element"
	"github.com/notargets/cstfem/model"
)

// Assembler scatters element stiffness matrices into a global band matrix
type Assembler struct {
	Formulator *element.Formulator
}

// Assemble builds the global stiffness matrix of size 2·numNodes with the
// given band width. A band width that is too small fails with
// band.ErrOutOfBand rather than dropping stiffness.
func (a *Assembler) Assemble(numNodes int, elements []element.Triangle, bandWidth int) (*band.Matrix, error) {
	if numNodes <= 0 || bandWidth <= 0 {
		return nil, fmt.Errorf("assemble %d nodes with band width %d: %w", numNodes, bandWidth, model.ErrInvalid)
	}
	K := band.NewMatrix(model.NumDOF(numNodes), bandWidth)
	for _, t := range elements {
		if err := a.AddElement(K, t); err != nil {
			return nil, err
		}
	}
	return K, nil
}

// AddElement accumulates one element into K. Only the upper triangle is
// written; for each corner pair (i, j) the block is added when
// nodeID(i) >= nodeID(j), and the y(j)/x(i) cross term only when the node
// IDs differ, so every symmetric pair is added exactly once.
func (a *Assembler) AddElement(K *band.Matrix, t element.Triangle) error {
	Ke := a.Formulator.Stiffness(t)

	for i, ci := range t.Corners {
		for j, cj := range t.Corners {
			ni, nj := ci.NodeID, cj.NodeID
			if ni < nj {
				continue
			}
			// local element DOFs
			xi, yi := 2*i, 2*i+1
			xj, yj := 2*j, 2*j+1

			entries := [4]struct {
				row, col int
				v        float64
			}{
				{model.DOFX(nj), model.DOFX(ni), Ke.At(xi, xj)}, // top left
				{model.DOFX(nj), model.DOFY(ni), Ke.At(yi, xj)}, // top right
				{model.DOFY(nj), model.DOFY(ni), Ke.At(yi, yj)}, // bottom right
				{model.DOFY(nj), model.DOFX(ni), Ke.At(xi, yj)}, // bottom left
			}
			n := 3
			if ni > nj {
				n = 4
			}
			for _, e := range entries[:n] {
				if err := K.Accumulate(e.row, e.col, e.v); err != nil {
					return fmt.Errorf("element %d nodes (%d,%d): %w", t.ID, nj, ni, err)
				}
			}
		}
	}
	return nil
}
