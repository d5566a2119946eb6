package loader

import (
	"fmt"
	"github.com/notargets/cstfem/model"
	"github.com/notargets/gocfd/DG3D/mesh/readers"
)

// ImportMesh reads a mesh file (Gambit neutral, Gmsh, SU2; whatever the
// reader recognises) and keeps its triangular cells. Vertex k becomes node
// k+1 with its x and y coordinates taken as they are. Cells of any other
// shape are skipped. The returned model has no boundary conditions.
func ImportMesh(path string) (m *model.Model, skipped int, err error) {
	msh, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read mesh %s: %w", path, err)
	}

	nodes := make([]model.Node, len(msh.Vertices))
	for i, v := range msh.Vertices {
		if len(v) < 2 {
			return nil, 0, fmt.Errorf("mesh %s vertex %d has %d coordinates: %w",
				path, i, len(v), ErrSyntax)
		}
		nodes[i] = model.Node{ID: i + 1, X: v[0], Y: v[1]}
	}

	var conn []model.Connectivity
	for _, cell := range msh.EtoV {
		if len(cell) != 3 || cell[0] < 0 || cell[1] < 0 || cell[2] < 0 {
			skipped++
			continue
		}
		conn = append(conn, model.Connectivity{
			ID:    len(conn) + 1,
			Nodes: [3]int{cell[0] + 1, cell[1] + 1, cell[2] + 1},
		})
	}
	if len(conn) == 0 {
		return nil, skipped, fmt.Errorf("mesh %s has no triangles: %w", path, ErrReference)
	}
	if m, err = model.New(nodes, conn, nil, nil); err != nil {
		return nil, skipped, fmt.Errorf("mesh %s: %w", path, err)
	}
	return m, skipped, nil
}
